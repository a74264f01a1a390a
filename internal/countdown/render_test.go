package countdown

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func TestRenderInactiveEmitsNothing(t *testing.T) {
	r := newTestRenderer(t)

	cases := map[string]Configuration{
		"never saved": {},
		"disabled":    {Enabled: "no", EndDate: "2099-01-01", EndTime: "00:00"},
		"no end date": {Enabled: "yes", EndTime: "00:00"},
		"odd flag":    {Enabled: "on", EndDate: "2099-01-01"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := r.Render(cfg)
			require.NoError(t, err)
			assert.Empty(t, out)
		})
	}
}

func TestRenderActive(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(Configuration{Enabled: "yes", EndDate: "2099-01-01", EndTime: "00:00:00", HeadingText: "Sale ends in"})
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, `<div id="demo" class="psct_countdown"></div>`)
	assert.Contains(t, html, `document.getElementById("demo")`)
	assert.Contains(t, html, `new Date("2099-01-01 00:00:00").getTime()`)
	assert.Contains(t, html, `var heading = "Sale ends in";`)
	assert.Contains(t, html, `var expiredLabel = "EXPIRED";`)
	assert.Regexp(t, regexp.MustCompile(`\},\s*1000\s*\);`), html)
	assert.Contains(t, html, "setInterval(function ()")
	assert.Contains(t, html, "if (distance < 0)")
	assert.Equal(t, 1, strings.Count(html, "<script>"))
}

func TestRenderEscapesHeading(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(Configuration{Enabled: "yes", EndDate: "2099-01-01", HeadingText: `</script><script>alert("x")</script>`})
	require.NoError(t, err)

	assert.NotContains(t, string(out), `<script>alert`)
	assert.Equal(t, 1, strings.Count(string(out), "</script>"))
}

func TestAssetsContainStylesheet(t *testing.T) {
	data, err := fs.ReadFile(Assets(), "css/style.css")
	require.NoError(t, err)
	assert.Contains(t, string(data), ".psct_countdown_wrap")
	assert.Contains(t, string(data), ".psct_expire-text")
}
