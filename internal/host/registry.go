// Package host - ürün admin ekranı ve ürün sayfasının eklenti noktaları:
// ayar sekmeleri, save hook'ları, özet blokları ve stylesheet'ler.
// Bileşenler açılışta Registry'ye açıkça kaydolur.
package host

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"sort"
	"strings"
	"sync"
)

type Field struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Type        string `json:"type"` // checkbox | text | date | time
	Description string `json:"description,omitempty"`
	DescTip     bool   `json:"desc_tip"`
	Value       string `json:"value"`
}

type Panel struct {
	Target string  `json:"target"`
	Fields []Field `json:"fields"`
}

// Tab - ürün düzenleme ekranındaki sekme; Panel alanları ürünün mevcut değerleriyle doldurur
type Tab struct {
	Key    string
	Label  string
	Target string
	Panel  func(ctx context.Context, recordID uint) (Panel, error)
}

// FormValues - gönderilen form; anahtar sadece tarayıcı gönderdiyse vardır
type FormValues map[string]string

func (f FormValues) Value(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

func (f FormValues) Has(key string) bool {
	_, ok := f[key]
	return ok
}

type SaveHook func(ctx context.Context, recordID uint, form FormValues) error

type SummaryHook func(ctx context.Context, recordID uint) (template.HTML, error)

// Style - her ürün sayfasına eklenen stylesheet. Files, Prefix altına mount edilir.
type Style struct {
	Handle string
	Prefix string
	File   string
	Files  fs.FS
}

func (s Style) Href() string {
	return strings.TrimRight(s.Prefix, "/") + "/" + strings.TrimLeft(s.File, "/")
}

type summaryEntry struct {
	priority int
	seq      int
	hook     SummaryHook
}

type Registry struct {
	mu        sync.RWMutex
	tabs      []Tab
	saveHooks []SaveHook
	summaries []summaryEntry
	styles    []Style
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) AddTab(tab Tab) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tabs = append(r.tabs, tab)
}

func (r *Registry) OnSave(hook SaveHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveHooks = append(r.saveHooks, hook)
}

// OnSummary - düşük priority önce basılır, eşitlerde kayıt sırası korunur
func (r *Registry) OnSummary(priority int, hook SummaryHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, summaryEntry{priority: priority, seq: len(r.summaries), hook: hook})
}

func (r *Registry) EnqueueStyle(style Style) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.styles {
		if s.Handle == style.Handle {
			return
		}
	}
	r.styles = append(r.styles, style)
}

func (r *Registry) Tabs() []Tab {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Tab(nil), r.tabs...)
}

func (r *Registry) Styles() []Style {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Style(nil), r.styles...)
}

// Save - hata veren hook diğerlerini durdurmaz, hatalar birleştirilir
func (r *Registry) Save(ctx context.Context, recordID uint, form FormValues) error {
	r.mu.RLock()
	hooks := append([]SaveHook(nil), r.saveHooks...)
	r.mu.RUnlock()

	var errs []error
	for _, h := range hooks {
		if err := h(ctx, recordID, form); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) RenderSummary(ctx context.Context, recordID uint) (template.HTML, error) {
	r.mu.RLock()
	entries := append([]summaryEntry(nil), r.summaries...)
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority < entries[j].priority
		}
		return entries[i].seq < entries[j].seq
	})

	var b strings.Builder
	for _, e := range entries {
		out, err := e.hook(ctx, recordID)
		if err != nil {
			return "", err
		}
		b.WriteString(string(out))
	}
	return template.HTML(b.String()), nil
}
