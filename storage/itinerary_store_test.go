package storage

import (
	"fmt"
	"testing"
	"time"

	"trip-planner-server/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (*ItineraryStore, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Itinerary{}, &models.ItineraryItem{}); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return NewItineraryStore(db), db
}

func testItinerary(userID string, start time.Time) *models.Itinerary {
	return &models.Itinerary{
		UserID:    userID,
		Title:     "Test Trip",
		Location:  "Lisbon",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 3),
	}
}

func TestCreateItineraryIsAtomic(t *testing.T) {
	store, db := newTestStore(t)

	// Force the item insert to fail so the itinerary insert must roll back.
	if err := db.Migrator().DropTable(&models.ItineraryItem{}); err != nil {
		t.Fatalf("dropping items table: %v", err)
	}

	itinerary := testItinerary("1", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	items := []models.ItineraryItem{{Day: 1, Activity: "Tram 28", Type: "transport"}}
	if err := store.CreateItinerary(itinerary, items); err == nil {
		t.Fatal("expected create to fail without the items table")
	}

	var count int64
	if err := db.Model(&models.Itinerary{}).Count(&count).Error; err != nil {
		t.Fatalf("counting itineraries: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rolled-back itinerary, found %d rows", count)
	}
}

func TestGetItineraryOrdersItems(t *testing.T) {
	store, _ := newTestStore(t)

	itinerary := testItinerary("1", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	items := []models.ItineraryItem{
		{Day: 2, Time: "09:00", Activity: "Sintra"},
		{Day: 1, Time: "15:00", Activity: "Alfama walk"},
		{Day: 1, Time: "09:00", Activity: "Belem"},
	}
	if err := store.CreateItinerary(itinerary, items); err != nil {
		t.Fatalf("creating itinerary: %v", err)
	}

	fetched, err := store.GetItinerary(itinerary.ID)
	if err != nil {
		t.Fatalf("fetching itinerary: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected itinerary, got nil")
	}
	wantOrder := []string{"Belem", "Alfama walk", "Sintra"}
	if len(fetched.Items) != len(wantOrder) {
		t.Fatalf("expected %d items, got %d", len(wantOrder), len(fetched.Items))
	}
	for i, want := range wantOrder {
		if fetched.Items[i].Activity != want {
			t.Fatalf("item %d: expected %q, got %q", i, want, fetched.Items[i].Activity)
		}
	}
}

func TestGetItineraryMissing(t *testing.T) {
	store, _ := newTestStore(t)

	itinerary, err := store.GetItinerary(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if itinerary != nil {
		t.Fatalf("expected nil for missing id, got %+v", itinerary)
	}
}

func TestUpdateItineraryMissing(t *testing.T) {
	store, _ := newTestStore(t)

	updated, err := store.UpdateItinerary(42, map[string]interface{}{"title": "Ghost"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != nil {
		t.Fatalf("expected nil for missing id, got %+v", updated)
	}
}

func TestDeleteItineraryReportsMissing(t *testing.T) {
	store, _ := newTestStore(t)

	deleted, err := store.DeleteItinerary(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted {
		t.Fatal("expected no deletion for missing id")
	}
}

func TestDeleteItineraryRemovesItems(t *testing.T) {
	store, db := newTestStore(t)

	itinerary := testItinerary("1", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	items := []models.ItineraryItem{
		{Day: 1, Activity: "Belem"},
		{Day: 2, Activity: "Sintra"},
	}
	if err := store.CreateItinerary(itinerary, items); err != nil {
		t.Fatalf("creating itinerary: %v", err)
	}

	deleted, err := store.DeleteItinerary(itinerary.ID)
	if err != nil {
		t.Fatalf("deleting itinerary: %v", err)
	}
	if !deleted {
		t.Fatal("expected deletion to be reported")
	}

	var count int64
	if err := db.Model(&models.ItineraryItem{}).Where("itinerary_id = ?", itinerary.ID).Count(&count).Error; err != nil {
		t.Fatalf("counting items: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no orphaned items, found %d", count)
	}
}
