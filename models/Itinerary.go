package models

import "time"

// Itinerary is a saved trip plan owned by one user. UserID is the token
// subject as a string so the record survives an external identity provider.
type Itinerary struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"userID" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"not null"`
	Location  string    `json:"location" gorm:"not null"`
	StartDate time.Time `json:"startDate" gorm:"not null"`
	EndDate   time.Time `json:"endDate" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`

	// Relationships
	Items []ItineraryItem `json:"items" gorm:"foreignKey:ItineraryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ItineraryItem is one scheduled activity within an itinerary, tied to a
// 1-based day number. Type is sightseeing/food/transport/lodging by
// convention, not enforced as an enum.
type ItineraryItem struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ItineraryID uint   `json:"itineraryID" gorm:"not null;index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Day         int    `json:"day" gorm:"not null"`
	Time        string `json:"time"` // "10:00", "Morning"
	Activity    string `json:"activity" gorm:"not null"`
	Location    string `json:"location"`
	Notes       string `json:"notes" gorm:"type:text"`
	Type        string `json:"type" gorm:"default:sightseeing"`
}
