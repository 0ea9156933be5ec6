package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/Kosench/go-shortlink/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	assert.NotNil(t, tmpl.Lookup(IndexTemplate))
	assert.NotNil(t, tmpl.Lookup(StatsTemplate))
}

func TestIndexPage_Render(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	t.Run("empty form", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, tmpl.ExecuteTemplate(&buf, IndexTemplate, NewIndexPage("", nil)))

		assert.Contains(t, buf.String(), `action="/create"`)
		assert.Contains(t, buf.String(), "3-20 chars")
		assert.NotContains(t, buf.String(), "alert-warning")
		assert.NotContains(t, buf.String(), `id="result"`)
	})

	t.Run("flash is escaped", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, tmpl.ExecuteTemplate(&buf, IndexTemplate, NewIndexPage("<b>custom code already taken</b>", nil)))

		assert.Contains(t, buf.String(), "alert-warning")
		assert.Contains(t, buf.String(), "&lt;b&gt;custom code already taken&lt;/b&gt;")
	})

	t.Run("result block", func(t *testing.T) {
		link := &model.LinkResponse{
			Short:    "abc123",
			ShortURL: "http://localhost:8080/abc123",
			StatsURL: "http://localhost:8080/stats/abc123",
		}

		var buf bytes.Buffer
		require.NoError(t, tmpl.ExecuteTemplate(&buf, IndexTemplate, NewIndexPage("", link)))

		assert.Contains(t, buf.String(), `id="result"`)
		assert.Contains(t, buf.String(), `href="http://localhost:8080/abc123"`)
		assert.Contains(t, buf.String(), `href="http://localhost:8080/stats/abc123"`)
	})
}

func TestStatsPage_Render(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	page := StatsPage{
		Link: &model.LinkResponse{
			Short:     "stat01",
			Original:  "https://example.com/page",
			Visits:    12,
			CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		Home: "/",
	}

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, StatsTemplate, page))

	out := buf.String()
	assert.Contains(t, out, "<code>stat01</code>")
	assert.Contains(t, out, `href="https://example.com/page"`)
	assert.Contains(t, out, `<span id="visits">12</span>`)
	assert.Contains(t, out, "2024-01-02T03:04:05Z")
}
