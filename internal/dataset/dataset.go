package dataset

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNotFound slug에 해당하는 키워드/지역 없음
var ErrNotFound = errors.New("dataset entry not found")

// Keyword 서비스 종류
type Keyword struct {
	Keyword string `json:"keyword" yaml:"keyword"`
}

// Location 도시/주
type Location struct {
	City      string   `json:"city" yaml:"city"`
	State     string   `json:"state" yaml:"state"`
	Latitude  *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
}

// Slug "{city}-{state}" 형식 slug
func (l Location) Slug() string {
	return Slug(l.City + "-" + l.State)
}

// Path is one keyword/location page.
type Path struct {
	Keyword  string `json:"keyword"`
	Location string `json:"location"`
}

// Dataset holds the keyword and location lists that drive page generation.
type Dataset struct {
	Keywords  []Keyword
	Locations []Location

	keywordsBySlug  map[string]Keyword
	locationsBySlug map[string]Location
}

// New indexes keywords and locations by slug. Entries with empty fields are
// dropped; on a slug collision the first entry wins.
func New(keywords []Keyword, locations []Location) *Dataset {
	d := &Dataset{
		keywordsBySlug:  make(map[string]Keyword, len(keywords)),
		locationsBySlug: make(map[string]Location, len(locations)),
	}
	for _, k := range keywords {
		slug := Slug(k.Keyword)
		if slug == "" {
			continue
		}
		if _, dup := d.keywordsBySlug[slug]; dup {
			continue
		}
		d.keywordsBySlug[slug] = k
		d.Keywords = append(d.Keywords, k)
	}
	for _, l := range locations {
		if strings.TrimSpace(l.City) == "" || strings.TrimSpace(l.State) == "" {
			continue
		}
		slug := l.Slug()
		if _, dup := d.locationsBySlug[slug]; dup {
			continue
		}
		d.locationsBySlug[slug] = l
		d.Locations = append(d.Locations, l)
	}
	return d
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases text, collapses every run of other characters to "-" and
// trims leading and trailing dashes: "St. Louis-MO" -> "st-louis-mo".
func Slug(text string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(text), "-"), "-")
}

func (d *Dataset) FindKeyword(slug string) (Keyword, error) {
	k, ok := d.keywordsBySlug[slug]
	if !ok {
		return Keyword{}, fmt.Errorf("keyword %q: %w", slug, ErrNotFound)
	}
	return k, nil
}

func (d *Dataset) FindLocation(slug string) (Location, error) {
	l, ok := d.locationsBySlug[slug]
	if !ok {
		return Location{}, fmt.Errorf("location %q: %w", slug, ErrNotFound)
	}
	return l, nil
}

// StaticPaths 모든 키워드 x 지역 조합
func (d *Dataset) StaticPaths() []Path {
	paths := make([]Path, 0, len(d.Keywords)*len(d.Locations))
	for _, k := range d.Keywords {
		for _, l := range d.Locations {
			paths = append(paths, Path{Keyword: Slug(k.Keyword), Location: l.Slug()})
		}
	}
	return paths
}

// CanonicalPath "/{keyword}/{city-state}"
func CanonicalPath(keyword, city, state string) string {
	return "/" + Slug(keyword) + "/" + Slug(city+"-"+state)
}

func PageTitle(keyword, city, state string) string {
	return fmt.Sprintf("The 10 Best %s in %s, %s", strings.ToLower(keyword), city, state)
}

func H1Title(keyword, city, state string) string {
	return fmt.Sprintf("Best %s in %s, %s", strings.ToLower(keyword), city, state)
}

func MetaDescription(keyword, city, state string) string {
	return fmt.Sprintf("Discover the top-rated %s in %s, %s, including contact details, reviews, and ratings.",
		strings.ToLower(keyword), city, state)
}
