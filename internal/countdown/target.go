package countdown

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Target - bitiş anı. Valid=false tarayıcıdaki NaN tarih gibidir, sayaç hiç bitmez.
type Target struct {
	At    time.Time
	Valid bool
}

// ParseTarget - "tarih saat" metnini gevşek çözümler
func ParseTarget(date, clock string, loc *time.Location) Target {
	stamp := strings.TrimSpace(date + " " + clock)
	if stamp == "" {
		return Target{}
	}
	if loc == nil {
		loc = time.Local
	}

	at, err := dateparse.ParseIn(stamp, loc)
	if err != nil {
		return Target{}
	}
	return Target{At: at, Valid: true}
}

// RemainingMs - target - now (ms); geçersiz target için ok=false
func (t Target) RemainingMs(now time.Time) (ms int64, ok bool) {
	if !t.Valid {
		return 0, false
	}
	return t.At.UnixMilli() - now.UnixMilli(), true
}
