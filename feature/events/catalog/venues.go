package catalog

import (
	"errors"
	"fmt"
	"strings"

	"event-sync/feature/events/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultVenueName is used when upstream venue data has no name.
const defaultVenueName = "Venue"

// VenueResolver deduplicates upstream venue data into Place rows.
// The match key is name equality only; address fields are overwritten on
// every match, so the freshest upstream data wins and manual edits are lost.
type VenueResolver struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewVenueResolver creates a venue resolver.
func NewVenueResolver(db *gorm.DB, logger *zap.Logger) *VenueResolver {
	return &VenueResolver{db: db, logger: logger}
}

// Resolve returns the Place id for the given venue info, creating the place
// on first sight of the name and overwriting its address fields otherwise.
func (r *VenueResolver) Resolve(info VenueInfo) (uint, error) {
	name := info.Name
	if name == "" {
		name = defaultVenueName
	}

	countryID := r.findCountry(info.CountryCode)
	stateID := r.findState(info.StateCode)

	var place models.Place
	err := r.db.Where("name = ?", name).First(&place).Error
	switch {
	case err == nil:
		updates := map[string]any{
			"street":      info.Street,
			"street2":     info.Street2,
			"city":        info.City,
			"postal_code": info.PostalCode,
			"country_id":  countryID,
			"state_id":    stateID,
		}
		if err := r.db.Model(&place).Updates(updates).Error; err != nil {
			return 0, fmt.Errorf("failed to update place %q: %w", name, err)
		}
		return place.ID, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		place = models.Place{
			Name:       name,
			Street:     info.Street,
			Street2:    info.Street2,
			City:       info.City,
			PostalCode: info.PostalCode,
			CountryID:  countryID,
			StateID:    stateID,
		}
		if err := r.db.Create(&place).Error; err != nil {
			return 0, fmt.Errorf("failed to create place %q: %w", name, err)
		}
		return place.ID, nil

	default:
		return 0, fmt.Errorf("failed to look up place %q: %w", name, err)
	}
}

// findCountry resolves a country by exact code or name match.
// Unresolved codes return nil so the field stays unset.
func (r *VenueResolver) findCountry(codeOrName string) *uint {
	if codeOrName == "" {
		return nil
	}
	var country models.Country
	err := r.db.Where("code = ? OR name = ?", strings.ToUpper(codeOrName), codeOrName).
		First(&country).Error
	if err != nil {
		return nil
	}
	return &country.ID
}

// findState resolves a state/province by exact code match.
func (r *VenueResolver) findState(code string) *uint {
	if code == "" {
		return nil
	}
	var state models.CountryState
	err := r.db.Where("code = ?", strings.ToUpper(code)).First(&state).Error
	if err != nil {
		return nil
	}
	return &state.ID
}
