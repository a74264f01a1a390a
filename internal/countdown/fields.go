// Package countdown - ürün bazlı satış geri sayımı: ayarların saklanması ve ürün sayfasındaki sayaç
package countdown

const (
	KeyEnabled = "_enable_timer"
	KeyEndDate = "_valid_for_date"
	KeyEndTime = "_valid_for_date_time"
	KeyHeading = "_valid_for_timer_text"
)

// Keys - dört anahtar her kayıtta birlikte yazılır
var Keys = []string{KeyEnabled, KeyEndDate, KeyEndTime, KeyHeading}

const (
	Yes = "yes"
	No  = "no"
)

// Configuration - bir ürünün kayıtlı sayaç ayarı, olmayan değerler ""
type Configuration struct {
	Enabled     string `json:"enabled"`
	EndDate     string `json:"end_date"`
	EndTime     string `json:"end_time"`
	HeadingText string `json:"heading_text"`
}

// Active - sayaç ürün sayfasında gösterilecek mi
func (c Configuration) Active() bool {
	return c.Enabled == Yes && c.EndDate != ""
}

// Stamp - istemcinin Date'e verdiği "tarih saat" metni
func (c Configuration) Stamp() string {
	return c.EndDate + " " + c.EndTime
}

func (c Configuration) Values() map[string]string {
	return map[string]string{
		KeyEnabled: c.Enabled,
		KeyEndDate: c.EndDate,
		KeyEndTime: c.EndTime,
		KeyHeading: c.HeadingText,
	}
}

func configurationFrom(values map[string]string) Configuration {
	return Configuration{
		Enabled:     values[KeyEnabled],
		EndDate:     values[KeyEndDate],
		EndTime:     values[KeyEndTime],
		HeadingText: values[KeyHeading],
	}
}

// RawFields - formdan gelen ham değerler. Checkbox'ın değeri değil gönderilip gönderilmediği önemli.
type RawFields struct {
	EnabledPresent bool
	EndDate        string
	EndTime        string
	HeadingText    string
}
