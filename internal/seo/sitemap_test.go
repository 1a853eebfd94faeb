package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/ggorockee/localdirectory/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemap(t *testing.T) {
	d := dataset.New(
		[]dataset.Keyword{{Keyword: "Plumbers"}, {Keyword: "Roofing Contractors"}},
		[]dataset.Location{{City: "Austin", State: "TX"}, {City: "St. Louis", State: "MO"}},
	)
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	urls := URLs("https://example.com/", d, now)
	require.Len(t, urls, 5)
	assert.Equal(t, URL{Loc: "https://example.com", LastMod: "2024-01-02T03:04:05Z", ChangeFreq: "daily", Priority: "1.0"}, urls[0])
	assert.Equal(t, "https://example.com/plumbers/austin-tx", urls[1].Loc)
	assert.Equal(t, "https://example.com/roofing-contractors/st-louis-mo", urls[4].Loc)
	assert.Equal(t, "0.8", urls[4].Priority)

	body, err := Sitemap(urls)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, string(body), `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)

	var parsed urlSet
	require.NoError(t, xml.Unmarshal(body, &parsed))
	assert.Len(t, parsed.URLs, 5)
}

func TestRobots(t *testing.T) {
	assert.Equal(t,
		"User-agent: *\nAllow: /\n\nSitemap: https://example.com/sitemap.xml",
		Robots("https://example.com/"))
}
