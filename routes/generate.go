package routes

import (
	"log"

	"trip-planner-server/services"
	"trip-planner-server/utils"

	"github.com/kataras/iris/v12"
)

// GenerateHandler binds the AI generation route to the completion service.
type GenerateHandler struct {
	AI *services.AIService
}

func NewGenerateHandler(ai *services.AIService) *GenerateHandler {
	return &GenerateHandler{AI: ai}
}

// GenerateItinerary forwards the trip parameters to the completion API and
// returns the draft plan. The underlying cause of a failure is logged here
// and never sent to the caller.
func (h *GenerateHandler) GenerateItinerary(ctx iris.Context) {
	var input services.GenerateItineraryInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	itinerary, err := h.AI.GenerateItinerary(ctx.Request().Context(), input)
	if err != nil {
		log.Printf("AI generation error: %v", err)
		utils.JSONError(ctx, iris.StatusInternalServerError, "generation_failed", "Failed to generate itinerary")
		return
	}

	utils.Audit(ctx, "generate", "itinerary", 0, input)

	ctx.JSON(itinerary)
}
