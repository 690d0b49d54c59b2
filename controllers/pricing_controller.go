package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"guesthouse-backend/apperror"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"
)

type quoteRequest struct {
	services.QuoteInput
	RoomTypeID uint `json:"roomTypeId"`
	RoomID     uint `json:"roomId"`
}

// PricingController exposes quotes and availability checks.
type PricingController struct {
	Pricing      *services.PricingService
	Availability *services.AvailabilityService
}

func NewPricingController(pricing *services.PricingService, availability *services.AvailabilityService) *PricingController {
	return &PricingController{Pricing: pricing, Availability: availability}
}

// POST /api/pricing/quote
// Quotes a room when roomId is given, otherwise a room type.
func (ctrl *PricingController) Quote(c *gin.Context) {
	var req quoteRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Lang = pickLang(req.Lang, c)
	ctx := c.Request.Context()
	switch {
	case req.RoomID != 0:
		out, err := ctrl.Pricing.QuoteRoom(ctx, req.RoomID, req.QuoteInput)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, out)
	case req.RoomTypeID != 0:
		out, err := ctrl.Pricing.QuoteRoomType(ctx, req.RoomTypeID, req.QuoteInput)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, out)
	default:
		respondError(c, apperror.Validation("room_required", "roomId or roomTypeId is required"))
	}
}

// POST /api/pricing/group-quote
func (ctrl *PricingController) GroupQuote(c *gin.Context) {
	var in services.GroupQuoteInput
	if !bindJSON(c, &in) {
		return
	}
	in.Lang = pickLang(in.Lang, c)
	out, err := ctrl.Pricing.QuoteGroup(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// POST /api/availability/check
func (ctrl *PricingController) CheckAvailability(c *gin.Context) {
	var in services.AvailabilityInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := ctrl.Availability.Check(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}
