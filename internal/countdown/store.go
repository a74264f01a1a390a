package countdown

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimestamp = errors.New("bitiş tarihi/saati çözümlenemedi")

// RecordStore - ürün bazlı key/value meta deposu
type RecordStore interface {
	GetMany(ctx context.Context, recordID uint, keys ...string) (map[string]string, error)
	SetMany(ctx context.Context, recordID uint, values map[string]string) error
}

type Adapter struct {
	store    RecordStore
	strict   bool
	location *time.Location
}

type Option func(*Adapter)

// WithStrictTimestamp - aktif sayacın tarih/saati loc'ta çözülemezse Save hata döner.
// Kapalıyken değerler yazıldığı gibi saklanır.
func WithStrictTimestamp(loc *time.Location) Option {
	return func(a *Adapter) {
		a.strict = true
		a.location = loc
	}
}

func NewAdapter(store RecordStore, opts ...Option) *Adapter {
	a := &Adapter{store: store}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Save - alanları temizler ve dört anahtarı (boş olanlar dahil) yazar
func (a *Adapter) Save(ctx context.Context, recordID uint, raw RawFields) (Configuration, error) {
	cfg := Configuration{
		Enabled:     CheckboxValue(raw.EnabledPresent),
		EndDate:     SanitizeText(raw.EndDate),
		EndTime:     SanitizeText(raw.EndTime),
		HeadingText: SanitizeText(raw.HeadingText),
	}

	if a.strict && cfg.Active() && !ParseTarget(cfg.EndDate, cfg.EndTime, a.location).Valid {
		return Configuration{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, cfg.Stamp())
	}

	if err := a.store.SetMany(ctx, recordID, cfg.Values()); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}

// Load - hiç kaydedilmemiş ürün için hepsi boş döner, hata değil
func (a *Adapter) Load(ctx context.Context, recordID uint) (Configuration, error) {
	values, err := a.store.GetMany(ctx, recordID, Keys...)
	if err != nil {
		return Configuration{}, err
	}
	return configurationFrom(values), nil
}
