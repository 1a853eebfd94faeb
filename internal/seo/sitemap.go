package seo

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/ggorockee/localdirectory/internal/dataset"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URL sitemap <url> 항목
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URLs lists the home page followed by every keyword/location page.
func URLs(baseURL string, d *dataset.Dataset, now time.Time) []URL {
	base := strings.TrimRight(baseURL, "/")
	lastMod := now.UTC().Format(time.RFC3339)

	urls := make([]URL, 0, 1+len(d.Keywords)*len(d.Locations))
	urls = append(urls, URL{Loc: base, LastMod: lastMod, ChangeFreq: "daily", Priority: "1.0"})
	for _, p := range d.StaticPaths() {
		urls = append(urls, URL{
			Loc:        base + "/" + p.Keyword + "/" + p.Location,
			LastMod:    lastMod,
			ChangeFreq: "daily",
			Priority:   "0.8",
		})
	}
	return urls
}

// Sitemap renders a sitemaps.org urlset document.
func Sitemap(urls []URL) ([]byte, error) {
	body, err := xml.MarshalIndent(urlSet{XMLNS: sitemapNS, URLs: urls}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// Robots allows everything and points crawlers at the sitemap.
func Robots(baseURL string) string {
	return "User-agent: *\nAllow: /\n\nSitemap: " + strings.TrimRight(baseURL, "/") + "/sitemap.xml"
}
