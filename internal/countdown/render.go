package countdown

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strconv"
	"time"
)

// ElementID - script'in doldurduğu placeholder id'si
const ElementID = "demo"

const TickInterval = time.Second

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// Assets - storefront'ta AssetPrefix altında sunulan css ağacı
func Assets() fs.FS {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/countdown.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("countdown template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

type fragmentData struct {
	ElementID    string
	Heading      string
	ExpiredLabel string
	Stamp        string
	IntervalMs   template.JS
}

// Render - placeholder + script. Kapalı ya da bitiş tarihi olmayan sayaç için hiçbir şey basılmaz (script de).
func (r *Renderer) Render(cfg Configuration) (template.HTML, error) {
	if !cfg.Active() {
		return "", nil
	}

	var buf bytes.Buffer
	err := r.tmpl.ExecuteTemplate(&buf, "countdown", fragmentData{
		ElementID:    ElementID,
		Heading:      cfg.HeadingText,
		ExpiredLabel: ExpiredLabel,
		Stamp:        cfg.Stamp(),
		IntervalMs:   template.JS(strconv.FormatInt(TickInterval.Milliseconds(), 10)),
	})
	if err != nil {
		return "", fmt.Errorf("countdown render: %w", err)
	}
	return template.HTML(buf.String()), nil
}
