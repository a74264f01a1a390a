package countdown

const (
	msPerSecond int64 = 1000
	msPerMinute       = 60 * msPerSecond
	msPerHour         = 60 * msPerMinute
	msPerDay          = 24 * msPerHour
)

// Parts - kalan süre; saat/dakika/saniye üst birimin içinde kalan kısım
type Parts struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// Breakdown - her birim aşağı yuvarlanır, kalan bölünenin işaretini alır (tarayıcıdaki hesapla aynı)
func Breakdown(remainingMs int64) Parts {
	return Parts{
		Days:    floorDiv(remainingMs, msPerDay),
		Hours:   floorDiv(remainingMs%msPerDay, msPerHour),
		Minutes: floorDiv(remainingMs%msPerHour, msPerMinute),
		Seconds: floorDiv(remainingMs%msPerMinute, msPerSecond),
	}
}

// Millis - negatif olmayan d için Breakdown(d).Millis() + d%1000 == d
func (p Parts) Millis() int64 {
	return p.Days*msPerDay + p.Hours*msPerHour + p.Minutes*msPerMinute + p.Seconds*msPerSecond
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
