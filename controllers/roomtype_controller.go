package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"guesthouse-backend/apperror"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"
)

type RoomTypeController struct {
	Svc      *services.RoomTypeService
	Calendar *services.CalendarService
	Pricing  *services.PricingService
}

func NewRoomTypeController(svc *services.RoomTypeService, cal *services.CalendarService, pricing *services.PricingService) *RoomTypeController {
	return &RoomTypeController{Svc: svc, Calendar: cal, Pricing: pricing}
}

// GET /api/room-types?buildingId=
func (ctrl *RoomTypeController) GetRoomTypes(c *gin.Context) {
	buildingID, ok := queryUint(c, "buildingId")
	if !ok {
		return
	}
	out, err := ctrl.Svc.GetAll(c.Request.Context(), buildingID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// GET /api/room-types/:id
func (ctrl *RoomTypeController) GetRoomType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rt, err := ctrl.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rt)
}

// POST /api/room-types
func (ctrl *RoomTypeController) CreateRoomType(c *gin.Context) {
	var in services.RoomTypeInput
	if !bindJSON(c, &in) {
		return
	}
	rt, err := ctrl.Svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rt)
}

// PUT /api/room-types/:id
func (ctrl *RoomTypeController) UpdateRoomType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.RoomTypeInput
	if !bindJSON(c, &in) {
		return
	}
	rt, err := ctrl.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rt)
}

// DELETE /api/room-types/:id
func (ctrl *RoomTypeController) DeleteRoomType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// GET /api/room-types/:id/calendar?from=&to=
func (ctrl *RoomTypeController) GetCalendar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}
	if from == nil || to == nil {
		respondError(c, apperror.Validation("range_required", "from and to are required"))
		return
	}
	days, err := ctrl.Calendar.View(c.Request.Context(), id, *from, *to, requestLang(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, days)
}

// POST /api/room-types/:id/quote
func (ctrl *RoomTypeController) Quote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.QuoteInput
	if !bindJSON(c, &in) {
		return
	}
	in.Lang = pickLang(in.Lang, c)
	out, err := ctrl.Pricing.QuoteRoomType(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}
