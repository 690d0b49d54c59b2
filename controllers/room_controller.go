package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"guesthouse-backend/services"
	"guesthouse-backend/utils"
)

type RoomController struct {
	Svc     *services.RoomService
	Pricing *services.PricingService
}

func NewRoomController(svc *services.RoomService, pricing *services.PricingService) *RoomController {
	return &RoomController{Svc: svc, Pricing: pricing}
}

// ----------------------------------------------------
// 1. Get Rooms (GET /api/rooms?roomTypeId=)
// ----------------------------------------------------

func (ctrl *RoomController) GetRooms(c *gin.Context) {
	roomTypeID, ok := queryUint(c, "roomTypeId")
	if !ok {
		return
	}
	rooms, err := ctrl.Svc.GetAll(c.Request.Context(), roomTypeID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// ----------------------------------------------------
// 2. Create Room (POST /api/rooms)
// ----------------------------------------------------

func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var in services.RoomInput
	if !bindJSON(c, &in) {
		return
	}
	room, err := ctrl.Svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// ----------------------------------------------------
// 3. Update Room (PATCH/PUT /api/rooms/:id)
// ----------------------------------------------------

func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.RoomPatch
	if !bindJSON(c, &in) {
		return
	}
	room, err := ctrl.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// ----------------------------------------------------
// 4. Delete Room (DELETE /api/rooms/:id)
// ----------------------------------------------------

func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
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

// ----------------------------------------------------
// 5. Quote Room (POST /api/rooms/:id/quote)
// ----------------------------------------------------

func (ctrl *RoomController) QuoteRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.QuoteInput
	if !bindJSON(c, &in) {
		return
	}
	in.Lang = pickLang(in.Lang, c)
	out, err := ctrl.Pricing.QuoteRoom(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}
