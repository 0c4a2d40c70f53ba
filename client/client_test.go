package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"trip-planner-server/models"
)

// fakeServer stubs the itinerary API and counts list fetches so the tests
// can observe cache behavior.
type fakeServer struct {
	listHits int
	getHits  int
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/itineraries", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			f.listHits++
			json.NewEncoder(w).Encode([]models.Itinerary{{ID: 1, UserID: "1", Title: "Tokyo Trip"}})
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(models.Itinerary{ID: 2, UserID: "1", Title: "Kyoto Trip"})
		}
	})
	mux.HandleFunc("/api/itineraries/1", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			f.getHits++
			json.NewEncoder(w).Encode(models.Itinerary{ID: 1, UserID: "1", Title: "Tokyo Trip", Items: []models.ItineraryItem{}})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	mux.HandleFunc("/api/itineraries/404", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Itinerary not found"})
	})
	return mux
}

func newTestClient(t *testing.T) (*Client, *fakeServer) {
	t.Helper()
	fake := &fakeServer{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-token"), fake
}

func TestListItinerariesCached(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		itineraries, err := c.ListItineraries(ctx)
		if err != nil {
			t.Fatalf("listing itineraries: %v", err)
		}
		if len(itineraries) != 1 {
			t.Fatalf("expected 1 itinerary, got %d", len(itineraries))
		}
	}

	if fake.listHits != 1 {
		t.Fatalf("expected 1 server hit for 3 cached reads, got %d", fake.listHits)
	}
}

func TestCreateInvalidatesListCache(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	if _, err := c.ListItineraries(ctx); err != nil {
		t.Fatalf("listing itineraries: %v", err)
	}

	created, err := c.CreateItinerary(ctx, CreateItineraryRequest{
		Title:     "Kyoto Trip",
		Location:  "Kyoto",
		StartDate: "2024-06-01T00:00:00Z",
		EndDate:   "2024-06-04T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("creating itinerary: %v", err)
	}
	if created.ID != 2 {
		t.Fatalf("unexpected created id %d", created.ID)
	}

	if _, err := c.ListItineraries(ctx); err != nil {
		t.Fatalf("listing itineraries: %v", err)
	}
	if fake.listHits != 2 {
		t.Fatalf("expected refetch after create, got %d hits", fake.listHits)
	}
}

func TestDeleteInvalidatesCaches(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	if _, err := c.ListItineraries(ctx); err != nil {
		t.Fatalf("listing itineraries: %v", err)
	}
	if _, err := c.GetItinerary(ctx, 1); err != nil {
		t.Fatalf("getting itinerary: %v", err)
	}

	if err := c.DeleteItinerary(ctx, 1); err != nil {
		t.Fatalf("deleting itinerary: %v", err)
	}

	if _, err := c.ListItineraries(ctx); err != nil {
		t.Fatalf("listing itineraries: %v", err)
	}
	if _, err := c.GetItinerary(ctx, 1); err != nil {
		t.Fatalf("getting itinerary: %v", err)
	}

	if fake.listHits != 2 || fake.getHits != 2 {
		t.Fatalf("expected refetch after delete, got list=%d get=%d", fake.listHits, fake.getHits)
	}
}

func TestGetItineraryNotFoundIsNil(t *testing.T) {
	c, _ := newTestClient(t)

	itinerary, err := c.GetItinerary(context.Background(), 404)
	if err != nil {
		t.Fatalf("expected nil error for 404, got %v", err)
	}
	if itinerary != nil {
		t.Fatalf("expected nil itinerary for 404, got %+v", itinerary)
	}
}

func TestMutationSurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Field 'title' failed on the 'required' rule", "field": "title"})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	_, err := c.CreateItinerary(context.Background(), CreateItineraryRequest{})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "Field 'title' failed on the 'required' rule" {
		t.Fatalf("expected server message, got %q", apiErr.Message)
	}
}
