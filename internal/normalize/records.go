package normalize

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/localeats/resolver/internal/model"
)

// Restaurant canonicalizes one bronze catalog row. Returns an error when the
// row fails a required-field check; callers exclude such rows from the batch
// and count them, they are never fatal to the run.
func Restaurant(raw RawRestaurant, region Region) (*model.RestaurantRecord, error) {
	if strings.TrimSpace(raw.RestaurantID) == "" {
		return nil, eris.New("normalize: restaurant missing identity")
	}
	name := Name(raw.Name)
	if name == "" {
		return nil, eris.Errorf("normalize: restaurant %s missing name", raw.RestaurantID)
	}
	if raw.Latitude == nil || raw.Longitude == nil {
		return nil, eris.Errorf("normalize: restaurant %s missing geocoordinates", raw.RestaurantID)
	}
	if !region.Contains(*raw.Latitude, *raw.Longitude) {
		return nil, eris.Errorf("normalize: restaurant %s outside bounding region", raw.RestaurantID)
	}

	return &model.RestaurantRecord{
		RestaurantID: strings.TrimSpace(raw.RestaurantID),
		Name:         name,
		Address:      Name(raw.Address),
		City:         Name(raw.City),
		State:        strings.ToUpper(strings.TrimSpace(raw.State)),
		PostalCode:   Postal(raw.PostalCode),
		Latitude:     *raw.Latitude,
		Longitude:    *raw.Longitude,
		Categories:   Categories(raw.Categories),
		Rating:       raw.Rating,
		ReviewCount:  raw.ReviewCount,
		PriceTier:    PriceTier(raw.Price),
		Closed:       Flag(raw.Closed),
		LoadedAt:     raw.LoadedAt,
		UpdatedAt:    raw.UpdatedAt,
	}, nil
}

// Inspection canonicalizes one bronze registry row. Coordinate requirements
// only apply to sources that geocode their rows (Cambridge); the Boston
// registry carries no coordinates at all.
func Inspection(raw RawInspection, region Region) (*model.InspectionRecord, error) {
	if strings.TrimSpace(raw.InspectionID) == "" {
		return nil, eris.New("normalize: inspection missing identity")
	}
	name := Name(raw.Establishment)
	if name == "" {
		return nil, eris.Errorf("normalize: inspection %s missing establishment name", raw.InspectionID)
	}
	if raw.InspectedAt == nil {
		return nil, eris.Errorf("normalize: inspection %s missing date", raw.InspectionID)
	}

	rec := &model.InspectionRecord{
		InspectionID:  strings.TrimSpace(raw.InspectionID),
		Jurisdiction:  raw.Jurisdiction,
		Establishment: name,
		Address:       Name(raw.Address),
		City:          Name(raw.City),
		PostalCode:    Postal(raw.PostalCode),
		ViolationCode: strings.ToUpper(strings.TrimSpace(raw.ViolationCode)),
		Severity:      model.ParseSeverity(strings.ToUpper(strings.TrimSpace(raw.Severity))),
		Passed:        passedResult(raw.Result),
		InspectedAt:   raw.InspectedAt.UTC(),
		LoadedAt:      raw.LoadedAt,
		UpdatedAt:     raw.UpdatedAt,
	}

	if raw.Jurisdiction == model.JurisdictionCambridge {
		if raw.Latitude == nil || raw.Longitude == nil {
			return nil, eris.Errorf("normalize: inspection %s missing geocoordinates", raw.InspectionID)
		}
		if !region.Contains(*raw.Latitude, *raw.Longitude) {
			return nil, eris.Errorf("normalize: inspection %s outside bounding region", raw.InspectionID)
		}
		rec.Latitude = raw.Latitude
		rec.Longitude = raw.Longitude
	}

	return rec, nil
}

// Stop canonicalizes one bronze transit-stop row.
func Stop(raw RawStop, region Region) (*model.TransitStop, error) {
	if strings.TrimSpace(raw.StopID) == "" {
		return nil, eris.New("normalize: stop missing identity")
	}
	if strings.TrimSpace(raw.Name) == "" {
		return nil, eris.Errorf("normalize: stop %s missing name", raw.StopID)
	}
	if raw.Latitude == nil || raw.Longitude == nil {
		return nil, eris.Errorf("normalize: stop %s missing geocoordinates", raw.StopID)
	}
	if !region.Contains(*raw.Latitude, *raw.Longitude) {
		return nil, eris.Errorf("normalize: stop %s outside bounding region", raw.StopID)
	}

	return &model.TransitStop{
		StopID:     strings.TrimSpace(raw.StopID),
		Name:       strings.TrimSpace(raw.Name),
		Latitude:   *raw.Latitude,
		Longitude:  *raw.Longitude,
		Wheelchair: Flag(raw.Wheelchair),
	}, nil
}

// passedResult maps the registries' result vocabularies onto a binary
// pass/fail. Anything that does not read as a pass counts as a fail.
func passedResult(raw string) bool {
	r := strings.ToLower(strings.TrimSpace(raw))
	if strings.Contains(r, "fail") {
		return false
	}
	return strings.Contains(r, "pass")
}
