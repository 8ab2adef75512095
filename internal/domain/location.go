package domain

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
)

// Location identifies the place a comment is generated for. Immutable once
// resolved by the location lookup table (see ResolveLocation).
type Location struct {
	Name           string
	NormalizedName string
	Latitude       float64
	Longitude      float64
	Region         string
	Prefecture     string
	Resolved       bool // false when the name lookup missed and a default was substituted
}

// okinawaFamily and hokkaidoFamily drive the region axis of the candidate
// validator. Matching is by normalized-name prefix/substring
// since the corpus records free-form place names.
var okinawaFamily = []string{"那覇", "沖縄", "石垣", "宮古島", "名護"}

var hokkaidoFamily = []string{"札幌", "旭川", "函館", "釧路", "帯広", "北海道"}

// IsOkinawaFamily reports whether the location belongs to the Okinawa region
// family for the region-axis validator rule.
func (l Location) IsOkinawaFamily() bool {
	return matchesAny(l.NormalizedName, okinawaFamily)
}

// IsHokkaidoFamily reports whether the location belongs to the Hokkaido
// region family for the region-axis validator rule.
func (l Location) IsHokkaidoFamily() bool {
	return matchesAny(l.NormalizedName, hokkaidoFamily)
}

func matchesAny(name string, family []string) bool {
	for _, candidate := range family {
		if strings.Contains(name, candidate) {
			return true
		}
	}
	return false
}

// LocationLookup maps known location names to coordinates. Unknown names
// fall back to DefaultLocation with Resolved=false, flagged for the
// caller as a LocationUnresolved warning rather than a fatal error.
type LocationLookup struct {
	entries map[string]Location
	def     Location
}

// NewLocationLookup builds a lookup table from known entries. def is
// returned (with Resolved=false) for names not present in entries.
func NewLocationLookup(entries map[string]Location, def Location) *LocationLookup {
	normalized := make(map[string]Location, len(entries))
	for name, loc := range entries {
		loc.Name = name
		loc.NormalizedName = NormalizeLocationName(name)
		loc.Resolved = true
		normalized[loc.NormalizedName] = loc
	}
	return &LocationLookup{entries: normalized, def: def}
}

// Resolve looks up a location by (possibly raw) name.
func (t *LocationLookup) Resolve(name string) (Location, bool) {
	key := NormalizeLocationName(name)
	if loc, ok := t.entries[key]; ok {
		return loc, true
	}
	fallback := t.def
	fallback.Name = name
	fallback.NormalizedName = key
	fallback.Resolved = false
	return fallback, false
}

// LoadLocationsCSV reads a `name,latitude,longitude` place-name table and
// returns entries suitable for NewLocationLookup. A missing file is not
// an error — callers fall back to an empty lookup (everything resolves
// via def) the same way the corpus store tolerates a missing CSV.
func LoadLocationsCSV(path string) (map[string]Location, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Location{}, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return map[string]Location{}, nil
	}
	if err != nil {
		return nil, err
	}
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[h] = i
	}

	entries := make(map[string]Location)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // one malformed row never aborts the rest of the file
		}
		nameCol, ok := colIdx["name"]
		if !ok || nameCol >= len(row) || row[nameCol] == "" {
			continue
		}
		loc := Location{}
		if latCol, ok := colIdx["latitude"]; ok && latCol < len(row) {
			loc.Latitude, _ = strconv.ParseFloat(row[latCol], 64)
		}
		if lonCol, ok := colIdx["longitude"]; ok && lonCol < len(row) {
			loc.Longitude, _ = strconv.ParseFloat(row[lonCol], 64)
		}
		if regionCol, ok := colIdx["region"]; ok && regionCol < len(row) {
			loc.Region = row[regionCol]
		}
		if prefCol, ok := colIdx["prefecture"]; ok && prefCol < len(row) {
			loc.Prefecture = row[prefCol]
		}
		entries[row[nameCol]] = loc
	}
	return entries, nil
}

// NormalizeLocationName trims whitespace and collapses common full-width/
// half-width spacing so that "　那覇市 " and "那覇市" resolve identically.
func NormalizeLocationName(name string) string {
	trimmed := strings.TrimSpace(name)
	trimmed = strings.ReplaceAll(trimmed, "　", "")
	trimmed = strings.ReplaceAll(trimmed, " ", "")
	return trimmed
}
