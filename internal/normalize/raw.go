package normalize

import (
	"time"

	"github.com/localeats/resolver/internal/model"
)

// RawRestaurant is one bronze catalog row before canonicalization.
type RawRestaurant struct {
	RestaurantID string
	Name         string
	Address      string
	City         string
	State        string
	PostalCode   string
	Latitude     *float64
	Longitude    *float64
	Categories   string
	Rating       float64
	ReviewCount  int
	Price        string
	Closed       string
	LoadedAt     time.Time
	UpdatedAt    time.Time
}

// RawInspection is one bronze registry row before canonicalization.
type RawInspection struct {
	InspectionID  string
	Jurisdiction  model.Jurisdiction
	Establishment string
	Address       string
	City          string
	PostalCode    string
	Latitude      *float64
	Longitude     *float64
	ViolationCode string
	Severity      string
	Result        string
	InspectedAt   *time.Time
	LoadedAt      time.Time
	UpdatedAt     time.Time
}

// RawStop is one bronze transit-stop row before canonicalization.
type RawStop struct {
	StopID     string
	Name       string
	Latitude   *float64
	Longitude  *float64
	Wheelchair string
}
