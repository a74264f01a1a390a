package countdown

import (
	"context"
	"time"
)

// ExpiredLabel - süre dolunca sayacın yerine yazılır
const ExpiredLabel = "EXPIRED"

type State int

const (
	Counting State = iota
	Expired
)

func (s State) String() string {
	switch s {
	case Counting:
		return "counting"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Frame - bir tick'te ekrana basılan. Valid=false ise her alan NaN gösterilir.
type Frame struct {
	State       State
	Valid       bool
	RemainingMs int64
	Parts       Parts
}

// Timer - istemcideki tick döngüsünün sunucu karşılığı.
// Counting -> Expired kalan süre 0'ın altına düştüğü ilk tick'te olur, geri dönmez.
type Timer struct {
	target  Target
	state   State
	expired Frame
}

func NewTimer(target Target) *Timer {
	return &Timer{target: target}
}

func (t *Timer) State() State {
	return t.state
}

// Tick - süre dolduktan sonra saate bakmadan hep aynı expired frame döner
func (t *Timer) Tick(now time.Time) Frame {
	if t.state == Expired {
		return t.expired
	}

	ms, ok := t.target.RemainingMs(now)
	if !ok {
		return Frame{State: Counting}
	}
	if ms < 0 {
		t.state = Expired
		t.expired = Frame{State: Expired, Valid: true, RemainingMs: ms}
		return t.expired
	}
	return Frame{State: Counting, Valid: true, RemainingMs: ms, Parts: Breakdown(ms)}
}

// Run - ticks'ten gelen her değerde Tick + show.
// Expired basılınca, ticks kapanınca, show hata verince ya da ctx bitince döner.
func (t *Timer) Run(ctx context.Context, ticks <-chan time.Time, show func(Frame) error) (Frame, error) {
	var last Frame
	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case now, ok := <-ticks:
			if !ok {
				return last, nil
			}
			last = t.Tick(now)
			if err := show(last); err != nil {
				return last, err
			}
			if last.State == Expired {
				return last, nil
			}
		}
	}
}
