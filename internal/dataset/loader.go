package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Load reads both files. The format follows the extension: .json, .yaml/.yml
// or .csv (header row required).
func Load(keywordsPath, locationsPath string) (*Dataset, error) {
	keywords, err := LoadKeywords(keywordsPath)
	if err != nil {
		return nil, err
	}
	locations, err := LoadLocations(locationsPath)
	if err != nil {
		return nil, err
	}
	return New(keywords, locations), nil
}

func LoadKeywords(path string) ([]Keyword, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keywords: %w", err)
	}
	defer f.Close()

	var doc struct {
		Keywords []Keyword `json:"keywords" yaml:"keywords"`
	}
	switch ext(path) {
	case ".json":
		err = json.NewDecoder(f).Decode(&doc)
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(&doc)
	case ".csv":
		doc.Keywords, err = keywordsFromCSV(f)
	default:
		err = fmt.Errorf("unsupported format %q", ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse keywords %s: %w", path, err)
	}
	return doc.Keywords, nil
}

func LoadLocations(path string) ([]Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open locations: %w", err)
	}
	defer f.Close()

	var doc struct {
		Locations []Location `json:"locations" yaml:"locations"`
	}
	switch ext(path) {
	case ".json":
		err = json.NewDecoder(f).Decode(&doc)
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(&doc)
	case ".csv":
		doc.Locations, err = locationsFromCSV(f)
	default:
		err = fmt.Errorf("unsupported format %q", ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse locations %s: %w", path, err)
	}

	for i, l := range doc.Locations {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("location %d in %s: %w", i+1, path, err)
		}
	}
	return doc.Locations, nil
}

// Validate city 필수, state 2자 이상
func (l Location) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.City, validation.Required),
		validation.Field(&l.State, validation.Required, validation.Length(2, 0)),
	)
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// readCSV returns rows keyed by the trimmed lowercase header. Blank lines are
// skipped by encoding/csv itself.
func readCSV(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}

	var rows []map[string]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
}

func keywordsFromCSV(r io.Reader) ([]Keyword, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	out := make([]Keyword, 0, len(rows))
	for _, row := range rows {
		if row["keyword"] == "" {
			continue
		}
		out = append(out, Keyword{Keyword: row["keyword"]})
	}
	return out, nil
}

func locationsFromCSV(r io.Reader) ([]Location, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	out := make([]Location, 0, len(rows))
	for i, row := range rows {
		loc := Location{City: row["city"], State: row["state"]}
		if loc.Latitude, err = optionalFloat(row["latitude"]); err != nil {
			return nil, fmt.Errorf("row %d latitude: %w", i+2, err)
		}
		if loc.Longitude, err = optionalFloat(row["longitude"]); err != nil {
			return nil, fmt.Errorf("row %d longitude: %w", i+2, err)
		}
		out = append(out, loc)
	}
	return out, nil
}

func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
