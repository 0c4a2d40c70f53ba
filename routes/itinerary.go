package routes

import (
	"time"

	"trip-planner-server/models"
	"trip-planner-server/storage"
	"trip-planner-server/utils"

	"github.com/kataras/iris/v12"
)

// ItineraryHandler binds the itinerary routes to an explicitly injected
// store.
type ItineraryHandler struct {
	Store *storage.ItineraryStore
}

func NewItineraryHandler(store *storage.ItineraryStore) *ItineraryHandler {
	return &ItineraryHandler{Store: store}
}

type ItineraryItemInput struct {
	Day      int    `json:"day" validate:"required,min=1"`
	Time     string `json:"time" validate:"max=32"`
	Activity string `json:"activity" validate:"required,max=512"`
	Location string `json:"location" validate:"max=256"`
	Notes    string `json:"notes" validate:"max=2048"`
	Type     string `json:"type" validate:"max=64"`
}

type CreateItineraryInput struct {
	Title     string               `json:"title" validate:"required,max=256"`
	Location  string               `json:"location" validate:"required,max=256"`
	StartDate string               `json:"startDate" validate:"required"`
	EndDate   string               `json:"endDate" validate:"required"`
	Items     []ItineraryItemInput `json:"items" validate:"omitempty,dive"`
}

type UpdateItineraryInput struct {
	Title     string `json:"title" validate:"omitempty,max=256"`
	Location  string `json:"location" validate:"omitempty,max=256"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// GetItineraries lists the caller's itineraries, newest trip first.
func (h *ItineraryHandler) GetItineraries(ctx iris.Context) {
	userID := ctx.Values().GetString("userID")

	itineraries, err := h.Store.GetItineraries(userID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(itineraries)
}

// GetItinerary returns one itinerary with its items. 404 when absent, 403
// when it belongs to someone else.
func (h *ItineraryHandler) GetItinerary(ctx iris.Context) {
	userID := ctx.Values().GetString("userID")
	id := ctx.Params().GetUintDefault("id", 0)

	itinerary, err := h.Store.GetItinerary(id)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if itinerary == nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "Itinerary not found")
		return
	}
	if itinerary.UserID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	ctx.JSON(itinerary)
}

// CreateItinerary saves a generated or manually specified plan together with
// its initial items in one transaction.
func (h *ItineraryHandler) CreateItinerary(ctx iris.Context) {
	userID := ctx.Values().GetString("userID")

	var input CreateItineraryInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	startDate, ok := parseDateField(ctx, input.StartDate, "startDate")
	if !ok {
		return
	}
	endDate, ok := parseDateField(ctx, input.EndDate, "endDate")
	if !ok {
		return
	}
	if endDate.Before(startDate) {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "endDate must not be before startDate", "field": "endDate"})
		return
	}

	itinerary := models.Itinerary{
		UserID:    userID,
		Title:     input.Title,
		Location:  input.Location,
		StartDate: startDate,
		EndDate:   endDate,
	}

	items := make([]models.ItineraryItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, itemFromInput(item))
	}

	if err := h.Store.CreateItinerary(&itinerary, items); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "create", "itinerary", itinerary.ID, input)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(itinerary)
}

// UpdateItinerary applies a partial update to title/location/dates.
func (h *ItineraryHandler) UpdateItinerary(ctx iris.Context) {
	userID := ctx.Values().GetString("userID")
	id := ctx.Params().GetUintDefault("id", 0)

	existing, err := h.Store.GetItinerary(id)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if existing == nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "Itinerary not found")
		return
	}
	if existing.UserID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdateItineraryInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updates := map[string]interface{}{}
	if input.Title != "" {
		updates["title"] = input.Title
	}
	if input.Location != "" {
		updates["location"] = input.Location
	}

	startDate := existing.StartDate
	endDate := existing.EndDate
	if input.StartDate != "" {
		parsed, ok := parseDateField(ctx, input.StartDate, "startDate")
		if !ok {
			return
		}
		startDate = parsed
		updates["start_date"] = parsed
	}
	if input.EndDate != "" {
		parsed, ok := parseDateField(ctx, input.EndDate, "endDate")
		if !ok {
			return
		}
		endDate = parsed
		updates["end_date"] = parsed
	}
	if endDate.Before(startDate) {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "endDate must not be before startDate", "field": "endDate"})
		return
	}

	itinerary, err := h.Store.UpdateItinerary(id, updates)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if itinerary == nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "Itinerary not found")
		return
	}

	utils.Audit(ctx, "update", "itinerary", id, input)

	ctx.JSON(itinerary)
}

// DeleteItinerary removes the itinerary and all of its items.
func (h *ItineraryHandler) DeleteItinerary(ctx iris.Context) {
	userID := ctx.Values().GetString("userID")
	id := ctx.Params().GetUintDefault("id", 0)

	existing, err := h.Store.GetItinerary(id)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if existing == nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "Itinerary not found")
		return
	}
	if existing.UserID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	deleted, err := h.Store.DeleteItinerary(id)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if !deleted {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "Itinerary not found")
		return
	}

	utils.Audit(ctx, "delete", "itinerary", id, nil)

	ctx.StatusCode(iris.StatusNoContent)
}

// CreateItineraryItem adds a single activity to an existing itinerary.
func (h *ItineraryHandler) CreateItineraryItem(ctx iris.Context) {
	userID := ctx.Values().GetString("userID")
	id := ctx.Params().GetUintDefault("id", 0)

	existing, err := h.Store.GetItinerary(id)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if existing == nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "Itinerary not found")
		return
	}
	if existing.UserID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	var input ItineraryItemInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	item := itemFromInput(input)
	item.ItineraryID = id
	if err := h.Store.CreateItineraryItem(&item); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(item)
}

// DeleteItineraryItem removes one activity from an itinerary the caller owns.
func (h *ItineraryHandler) DeleteItineraryItem(ctx iris.Context) {
	userID := ctx.Values().GetString("userID")
	id := ctx.Params().GetUintDefault("id", 0)
	itemID := ctx.Params().GetUintDefault("itemID", 0)

	existing, err := h.Store.GetItinerary(id)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if existing == nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "Itinerary not found")
		return
	}
	if existing.UserID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	belongs := false
	for _, item := range existing.Items {
		if item.ID == itemID {
			belongs = true
			break
		}
	}
	if !belongs {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "Itinerary item not found")
		return
	}

	if _, err := h.Store.DeleteItineraryItem(itemID); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

func itemFromInput(input ItineraryItemInput) models.ItineraryItem {
	itemType := input.Type
	if itemType == "" {
		itemType = "sightseeing"
	}
	return models.ItineraryItem{
		Day:      input.Day,
		Time:     input.Time,
		Activity: input.Activity,
		Location: input.Location,
		Notes:    input.Notes,
		Type:     itemType,
	}
}

// parseDateField converts an ISO date string to a native time value, writing
// the 400 response itself when the value does not parse.
func parseDateField(ctx iris.Context, value, field string) (time.Time, bool) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": field + " must be an ISO 8601 timestamp", "field": field})
		return time.Time{}, false
	}
	return parsed, true
}
