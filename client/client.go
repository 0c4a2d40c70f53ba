// Package client is a small API client for the trip planner server. Read
// responses are cached by route path (plus id for single records); any
// successful mutation invalidates the affected entries so the next read hits
// the server again.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"trip-planner-server/models"
	"trip-planner-server/services"
)

const (
	itinerariesPath = "/api/itineraries"
	generatePath    = "/api/ai/generate-itinerary"
)

// APIError carries the server's message for a non-2xx mutation response so
// it can be surfaced to the user directly.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	token   string
	httpc   *http.Client

	mu    sync.Mutex
	cache map[string][]byte
}

func New(baseURL, accessToken string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   accessToken,
		httpc:   &http.Client{},
		cache:   map[string][]byte{},
	}
}

type ItineraryItemRequest struct {
	Day      int    `json:"day"`
	Time     string `json:"time,omitempty"`
	Activity string `json:"activity"`
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Type     string `json:"type,omitempty"`
}

type CreateItineraryRequest struct {
	Title     string                 `json:"title"`
	Location  string                 `json:"location"`
	StartDate string                 `json:"startDate"`
	EndDate   string                 `json:"endDate"`
	Items     []ItineraryItemRequest `json:"items,omitempty"`
}

type UpdateItineraryRequest struct {
	Title     string `json:"title,omitempty"`
	Location  string `json:"location,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

type GenerateItineraryRequest struct {
	Location    string `json:"location"`
	Days        int    `json:"days"`
	Preferences string `json:"preferences,omitempty"`
	StartDate   string `json:"startDate"`
}

// ListItineraries returns the caller's itineraries, served from cache until
// a mutation invalidates it.
func (c *Client) ListItineraries(ctx context.Context) ([]models.Itinerary, error) {
	body, ok := c.cached(itinerariesPath)
	if !ok {
		fresh, err := c.do(ctx, http.MethodGet, itinerariesPath, nil)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return nil, errors.New("failed to fetch itineraries")
			}
			return nil, err
		}
		c.store(itinerariesPath, fresh)
		body = fresh
	}

	var itineraries []models.Itinerary
	if err := json.Unmarshal(body, &itineraries); err != nil {
		return nil, err
	}
	return itineraries, nil
}

// GetItinerary returns one itinerary with its items. A 404 means "no such
// record" and comes back as (nil, nil) rather than an error.
func (c *Client) GetItinerary(ctx context.Context, id uint) (*models.Itinerary, error) {
	path := itineraryPath(id)
	body, ok := c.cached(path)
	if !ok {
		fresh, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				if apiErr.StatusCode == http.StatusNotFound {
					return nil, nil
				}
				return nil, errors.New("failed to fetch itinerary")
			}
			return nil, err
		}
		c.store(path, fresh)
		body = fresh
	}

	var itinerary models.Itinerary
	if err := json.Unmarshal(body, &itinerary); err != nil {
		return nil, err
	}
	return &itinerary, nil
}

// CreateItinerary saves a plan and invalidates the list cache.
func (c *Client) CreateItinerary(ctx context.Context, req CreateItineraryRequest) (*models.Itinerary, error) {
	body, err := c.do(ctx, http.MethodPost, itinerariesPath, req)
	if err != nil {
		return nil, err
	}

	var itinerary models.Itinerary
	if err := json.Unmarshal(body, &itinerary); err != nil {
		return nil, err
	}

	c.invalidate(itinerariesPath)
	return &itinerary, nil
}

// UpdateItinerary applies a partial update and invalidates both the record
// and list caches.
func (c *Client) UpdateItinerary(ctx context.Context, id uint, req UpdateItineraryRequest) (*models.Itinerary, error) {
	body, err := c.do(ctx, http.MethodPut, itineraryPath(id), req)
	if err != nil {
		return nil, err
	}

	var itinerary models.Itinerary
	if err := json.Unmarshal(body, &itinerary); err != nil {
		return nil, err
	}

	c.invalidate(itinerariesPath, itineraryPath(id))
	return &itinerary, nil
}

// DeleteItinerary removes a plan and invalidates both caches.
func (c *Client) DeleteItinerary(ctx context.Context, id uint) error {
	if _, err := c.do(ctx, http.MethodDelete, itineraryPath(id), nil); err != nil {
		return err
	}

	c.invalidate(itinerariesPath, itineraryPath(id))
	return nil
}

// AddItineraryItem appends one activity and invalidates the record cache.
func (c *Client) AddItineraryItem(ctx context.Context, id uint, item ItineraryItemRequest) (*models.ItineraryItem, error) {
	body, err := c.do(ctx, http.MethodPost, itineraryPath(id)+"/items", item)
	if err != nil {
		return nil, err
	}

	var created models.ItineraryItem
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, err
	}

	c.invalidate(itineraryPath(id))
	return &created, nil
}

// RemoveItineraryItem deletes one activity and invalidates the record cache.
func (c *Client) RemoveItineraryItem(ctx context.Context, id, itemID uint) error {
	path := fmt.Sprintf("%s/items/%d", itineraryPath(id), itemID)
	if _, err := c.do(ctx, http.MethodDelete, path, nil); err != nil {
		return err
	}

	c.invalidate(itineraryPath(id))
	return nil
}

// GenerateItinerary requests a draft plan. Responses are never cached: the
// same parameters can legitimately produce a different plan.
func (c *Client) GenerateItinerary(ctx context.Context, req GenerateItineraryRequest) (*services.GeneratedItinerary, error) {
	body, err := c.do(ctx, http.MethodPost, generatePath, req)
	if err != nil {
		return nil, err
	}

	var generated services.GeneratedItinerary
	if err := json.Unmarshal(body, &generated); err != nil {
		return nil, err
	}
	return &generated, nil
}

func itineraryPath(id uint) string {
	return fmt.Sprintf("%s/%d", itinerariesPath, id)
}

func (c *Client) cached(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.cache[key]
	return body, ok
}

func (c *Client) store(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = body
}

func (c *Client) invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.cache, key)
	}
}

// do performs one request and returns the raw body. Non-2xx responses come
// back as *APIError carrying the server's message.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: res.StatusCode, Message: "request failed"}
		var serverErr struct {
			Message string `json:"message"`
		}
		if jsonErr := json.Unmarshal(body, &serverErr); jsonErr == nil && serverErr.Message != "" {
			apiErr.Message = serverErr.Message
		}
		return nil, apiErr
	}

	return body, nil
}
