// Package match generates and scores candidate links between restaurant
// records and inspection records, accepting only sufficiently confident ones.
//
// Both jurisdiction matchers share one candidate-generation and scoring
// pipeline; everything jurisdiction-specific lives in a Profile.
package match

import (
	"github.com/localeats/resolver/internal/config"
	"github.com/localeats/resolver/internal/model"
)

// Profile parameterizes the shared matching pipeline for one registry.
type Profile struct {
	Jurisdiction model.Jurisdiction

	// WindowDeg is the half-width in degrees of the candidate window around
	// a restaurant. It bounds candidate volume, nothing more.
	WindowDeg float64

	// UseCoordinates selects the combined name+geo confidence model. When
	// false only the categorical name score applies.
	UseCoordinates bool

	// AddressPostalBoost lets an exact address + postal match alone justify
	// a 90 name score even when the names disagree.
	AddressPostalBoost bool
}

// BostonProfile matches against the Boston registry: no geocoding, so
// confidence rests on name, address, and postal heuristics.
func BostonProfile(cfg config.MatchConfig) Profile {
	return Profile{
		Jurisdiction:       model.JurisdictionBoston,
		WindowDeg:          cfg.BostonWindowDeg,
		UseCoordinates:     false,
		AddressPostalBoost: true,
	}
}

// CambridgeProfile matches against the Cambridge registry, whose rows are
// geocoded: name and distance signals combine, and the window is tighter.
func CambridgeProfile(cfg config.MatchConfig) Profile {
	return Profile{
		Jurisdiction:       model.JurisdictionCambridge,
		WindowDeg:          cfg.CambridgeWindowDeg,
		UseCoordinates:     true,
		AddressPostalBoost: false,
	}
}
