package storage

import (
	"errors"

	"trip-planner-server/models"

	"gorm.io/gorm"
)

// ItineraryStore is the itinerary persistence handle. It is constructed once
// at startup and passed into the route layer instead of being reached through
// a package-level singleton.
type ItineraryStore struct {
	db *gorm.DB
}

func NewItineraryStore(db *gorm.DB) *ItineraryStore {
	return &ItineraryStore{db: db}
}

// GetItineraries returns all itineraries owned by the given user, newest trip
// first. An owner with no itineraries gets an empty slice, not an error.
func (s *ItineraryStore) GetItineraries(userID string) ([]models.Itinerary, error) {
	itineraries := []models.Itinerary{}
	if err := s.db.Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&itineraries).Error; err != nil {
		return nil, err
	}
	return itineraries, nil
}

// GetItinerary returns the itinerary with its items ordered by day then time,
// or (nil, nil) when no row exists. Ownership is not checked here; callers
// compare UserID against the authenticated subject.
func (s *ItineraryStore) GetItinerary(id uint) (*models.Itinerary, error) {
	var itinerary models.Itinerary
	err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("day ASC, time ASC")
	}).First(&itinerary, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if itinerary.Items == nil {
		itinerary.Items = []models.ItineraryItem{}
	}
	return &itinerary, nil
}

// CreateItinerary inserts the itinerary and all of its items as one
// transaction: if any item insert fails the itinerary row is rolled back too.
// The passed itinerary gets its ID populated; items are returned on the
// separate item routes, not here.
func (s *ItineraryStore) CreateItinerary(itinerary *models.Itinerary, items []models.ItineraryItem) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(itinerary).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].ID = 0
			items[i].ItineraryID = itinerary.ID
		}
		return tx.Create(&items).Error
	})
}

// UpdateItinerary applies a partial field set and returns the updated row, or
// (nil, nil) when the id does not exist.
func (s *ItineraryStore) UpdateItinerary(id uint, updates map[string]interface{}) (*models.Itinerary, error) {
	if len(updates) > 0 {
		result := s.db.Model(&models.Itinerary{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, nil
		}
	}

	var itinerary models.Itinerary
	err := s.db.First(&itinerary, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &itinerary, nil
}

// DeleteItinerary removes the itinerary and its items. The schema declares
// the cascade, but the items are also cleaned up inside the transaction so
// stores without enforced foreign keys never leak orphaned rows. Reports
// whether an itinerary row was actually deleted.
func (s *ItineraryStore) DeleteItinerary(id uint) (bool, error) {
	deleted := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("itinerary_id = ?", id).Delete(&models.ItineraryItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Itinerary{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// CreateItineraryItem inserts a single item row. No transactional coupling
// with the parent.
func (s *ItineraryStore) CreateItineraryItem(item *models.ItineraryItem) error {
	return s.db.Create(item).Error
}

// DeleteItineraryItem removes a single item row by id.
func (s *ItineraryStore) DeleteItineraryItem(id uint) (bool, error) {
	result := s.db.Delete(&models.ItineraryItem{}, id)
	return result.RowsAffected > 0, result.Error
}
