// Package ingest reads bronze CSV batches into raw rows for staging.
// Readers are lenient: malformed rows are skipped and counted, never fatal.
package ingest

import (
	"strconv"
	"strings"
	"time"
)

// mapColumns builds a lowercased header-name to index map.
func mapColumns(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// getCol returns the trimmed value for the first matching column alias.
func getCol(record []string, colIdx map[string]int, aliases ...string) string {
	for _, a := range aliases {
		if i, ok := colIdx[a]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
	}
	return ""
}

func parseFloatPtr(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloatOr(s string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return fallback
}

func parseIntOr(s string, fallback int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return fallback
}

// dateLayouts covers the formats the upstream registries emit.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
}

func parseTimePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func parseTimeOr(s string, fallback time.Time) time.Time {
	if t := parseTimePtr(s); t != nil {
		return *t
	}
	return fallback
}
