// Package normalize canonicalizes raw bronze rows into the engine's uniform
// record shapes and collapses superseded versions to one current record per
// identity.
package normalize

import (
	"regexp"
	"strings"

	"github.com/twpayne/go-geom"

	"github.com/localeats/resolver/internal/model"
)

var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

var (
	fiveDigitRe = regexp.MustCompile(`^\d{5}$`)
	fourDigitRe = regexp.MustCompile(`^\d{4}$`)
	zipPlus4Re  = regexp.MustCompile(`^(\d{5})-\d{4}$`)
)

// Name standardizes an establishment name for matching by:
//  1. Trimming whitespace
//  2. Converting to uppercase
//  3. Collapsing multiple spaces into single spaces
func Name(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = strings.ToUpper(name)
	name = multiSpaceRe.ReplaceAllString(name, " ")
	return name
}

// Postal coerces a raw postal code into a 5-digit code. Four-digit inputs
// are zero-padded (leading zeros stripped upstream), ZIP+4 inputs are
// truncated, and anything else maps to the unknown sentinel so the row
// survives instead of being dropped.
func Postal(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case fiveDigitRe.MatchString(raw):
		return raw
	case fourDigitRe.MatchString(raw):
		return "0" + raw
	case zipPlus4Re.MatchString(raw):
		return zipPlus4Re.FindStringSubmatch(raw)[1]
	default:
		return model.PostalUnknown
	}
}

// PriceTier maps a price symbol or numeric level to the ordinal tier.
// Unknown inputs map to 0.
func PriceTier(raw string) int {
	switch strings.TrimSpace(raw) {
	case "$", "1":
		return 1
	case "$$", "2":
		return 2
	case "$$$", "3":
		return 3
	case "$$$$", "4":
		return 4
	default:
		return 0
	}
}

// Flag parses the boolean vocabularies the bronze sources use.
func Flag(raw string) bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "Y", "YES", "TRUE", "T", "1":
		return true
	default:
		return false
	}
}

// Categories splits a delimited category list, dropping empties.
func Categories(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '|' || r == ';'
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Region is the configured bounding region a geocoded row must fall inside.
type Region struct {
	bounds *geom.Bounds
}

// NewRegion builds a Region from min/max latitude and longitude.
func NewRegion(minLat, maxLat, minLon, maxLon float64) Region {
	b := geom.NewBounds(geom.XY)
	b.SetCoords(geom.Coord{minLon, minLat}, geom.Coord{maxLon, maxLat})
	return Region{bounds: b}
}

// Contains reports whether the point falls inside the region.
func (r Region) Contains(lat, lon float64) bool {
	if r.bounds == nil {
		return false
	}
	return r.bounds.OverlapsPoint(geom.XY, geom.Coord{lon, lat})
}
