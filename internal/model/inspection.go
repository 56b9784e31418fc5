package model

import "time"

// Jurisdiction identifies which municipal registry an inspection came from.
type Jurisdiction string

const (
	// JurisdictionBoston is the primary registry: no geocoordinates, matching
	// relies on name, address, and postal code.
	JurisdictionBoston Jurisdiction = "boston"
	// JurisdictionCambridge is the secondary registry: rows carry
	// geocoordinates, so matching combines name and distance signals.
	JurisdictionCambridge Jurisdiction = "cambridge"
)

// Severity classifies how serious a violation is.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// Weight returns the numeric severity weight used for the severity-weighted
// violation total.
func (s Severity) Weight() float64 {
	switch s {
	case SeverityHigh:
		return 10
	case SeverityMedium:
		return 5
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ParseSeverity maps registry severity vocabularies onto the unified enum.
// Unrecognized values fall back to LOW rather than dropping the row.
func ParseSeverity(raw string) Severity {
	switch raw {
	case "HIGH", "CRITICAL", "***", "3":
		return SeverityHigh
	case "MEDIUM", "SERIOUS", "**", "2":
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// InspectionRecord is one unified health-inspection row. Read-only once
// staged; the engine links to it but never mutates it.
type InspectionRecord struct {
	InspectionID  string       `json:"inspection_id"`
	Jurisdiction  Jurisdiction `json:"jurisdiction"`
	Establishment string       `json:"establishment"`
	Address       string       `json:"address"`
	City          string       `json:"city"`
	PostalCode    string       `json:"postal_code"`
	Latitude      *float64     `json:"latitude,omitempty"`
	Longitude     *float64     `json:"longitude,omitempty"`
	ViolationCode string       `json:"violation_code"`
	Severity      Severity     `json:"severity"`
	Passed        bool         `json:"passed"`
	InspectedAt   time.Time    `json:"inspected_at"`
	LoadedAt      time.Time    `json:"loaded_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// HasCoordinates reports whether the row carries usable geocoordinates.
func (r *InspectionRecord) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}
