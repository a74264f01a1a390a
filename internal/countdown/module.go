package countdown

import (
	"context"
	"html/template"
	"time"

	"countdown-backend/internal/host"

	"go.uber.org/zap"
)

const (
	TabKey    = "psct_tab"
	TabLabel  = "Product Countdown"
	TabTarget = "psct_tab_settings"

	// başlık, fiyat ve özetten sonra
	SummaryPriority = 30

	StyleHandle = "woo-countdown-timer-style"
	AssetPrefix = "/assets/countdown"
)

type Module struct {
	adapter  *Adapter
	renderer *Renderer
	location *time.Location
	now      func() time.Time
	onSaved  []func(ctx context.Context, recordID uint, before, after Configuration)
}

func NewModule(adapter *Adapter, renderer *Renderer, loc *time.Location) *Module {
	if loc == nil {
		loc = time.Local
	}
	return &Module{
		adapter:  adapter,
		renderer: renderer,
		location: loc,
		now:      time.Now,
	}
}

// OnSaved - her başarılı kayıttan sonra çağrılır (audit)
func (m *Module) OnSaved(fn func(ctx context.Context, recordID uint, before, after Configuration)) {
	m.onSaved = append(m.onSaved, fn)
}

func (m *Module) Adapter() *Adapter {
	return m.adapter
}

func (m *Module) Register(r *host.Registry) {
	r.AddTab(host.Tab{
		Key:    TabKey,
		Label:  TabLabel,
		Target: TabTarget,
		Panel:  m.panel,
	})
	r.OnSave(m.save)
	r.OnSummary(SummaryPriority, m.summary)
	r.EnqueueStyle(host.Style{
		Handle: StyleHandle,
		Prefix: AssetPrefix,
		File:   "css/style.css",
		Files:  Assets(),
	})
}

func (m *Module) panel(ctx context.Context, recordID uint) (host.Panel, error) {
	cfg, err := m.adapter.Load(ctx, recordID)
	if err != nil {
		return host.Panel{}, err
	}

	return host.Panel{
		Target: TabTarget,
		Fields: []host.Field{
			{ID: KeyEnabled, Label: "Enable Timer", Type: "checkbox", Value: cfg.Enabled},
			{ID: KeyHeading, Label: "Timer Heading Text", Type: "text", DescTip: true, Description: "Enter timer header text", Value: cfg.HeadingText},
			{ID: KeyEndDate, Label: "End Date", Type: "date", DescTip: true, Description: "Enter the end date here countdown for product sales", Value: cfg.EndDate},
			{ID: KeyEndTime, Label: "Time", Type: "time", DescTip: true, Description: "Enter the end time here countdown for product sales", Value: cfg.EndTime},
		},
	}, nil
}

func (m *Module) save(ctx context.Context, recordID uint, form host.FormValues) error {
	before, err := m.adapter.Load(ctx, recordID)
	if err != nil {
		return err
	}

	after, err := m.adapter.Save(ctx, recordID, RawFields{
		EnabledPresent: form.Has(KeyEnabled),
		EndDate:        form[KeyEndDate],
		EndTime:        form[KeyEndTime],
		HeadingText:    form[KeyHeading],
	})
	if err != nil {
		return err
	}

	zap.L().Info("countdown saved",
		zap.Uint("product_id", recordID),
		zap.String("enabled", after.Enabled),
		zap.String("end", after.Stamp()),
	)

	for _, fn := range m.onSaved {
		fn(ctx, recordID, before, after)
	}
	return nil
}

func (m *Module) summary(ctx context.Context, recordID uint) (template.HTML, error) {
	cfg, err := m.adapter.Load(ctx, recordID)
	if err != nil {
		return "", err
	}
	return m.renderer.Render(cfg)
}

// Status - sayacın sunucu tarafında hesaplanmış anlık hali
type Status struct {
	Active      bool   `json:"active"`
	State       string `json:"state,omitempty"`
	Valid       bool   `json:"valid"`
	HeadingText string `json:"heading_text,omitempty"`
	Target      string `json:"target,omitempty"`
	RemainingMs *int64 `json:"remaining_ms"`
	Parts       *Parts `json:"parts"`
	Label       string `json:"label,omitempty"`
}

func newStatus(cfg Configuration, target Target, f Frame) Status {
	s := Status{
		Active:      true,
		State:       f.State.String(),
		Valid:       f.Valid,
		HeadingText: cfg.HeadingText,
	}
	if target.Valid {
		s.Target = target.At.Format(time.RFC3339)
	}
	if f.State == Expired {
		s.Label = ExpiredLabel
		return s
	}
	if f.Valid {
		ms, parts := f.RemainingMs, f.Parts
		s.RemainingMs = &ms
		s.Parts = &parts
	}
	return s
}

func (m *Module) Status(ctx context.Context, recordID uint) (Status, error) {
	cfg, err := m.adapter.Load(ctx, recordID)
	if err != nil {
		return Status{}, err
	}
	if !cfg.Active() {
		return Status{Active: false}, nil
	}

	target := ParseTarget(cfg.EndDate, cfg.EndTime, m.location)
	return newStatus(cfg, target, NewTimer(target).Tick(m.now())), nil
}
