package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"guesthouse-backend/services"
	"guesthouse-backend/utils"
)

type AdditionalPriceController struct {
	Svc *services.AdditionalPriceService
}

func NewAdditionalPriceController(svc *services.AdditionalPriceService) *AdditionalPriceController {
	return &AdditionalPriceController{Svc: svc}
}

// GET /api/additional-prices?buildingId=&roomTypeId=
func (ctrl *AdditionalPriceController) GetAdditionalPrices(c *gin.Context) {
	buildingID, ok := queryUint(c, "buildingId")
	if !ok {
		return
	}
	roomTypeID, ok := queryUint(c, "roomTypeId")
	if !ok {
		return
	}
	out, err := ctrl.Svc.List(c.Request.Context(), services.AdditionalPriceFilter{BuildingID: buildingID, RoomTypeID: roomTypeID})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// POST /api/additional-prices
func (ctrl *AdditionalPriceController) CreateAdditionalPrice(c *gin.Context) {
	var in services.AdditionalPriceInput
	if !bindJSON(c, &in) {
		return
	}
	ap, err := ctrl.Svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, ap)
}

// PUT /api/additional-prices/:id
func (ctrl *AdditionalPriceController) UpdateAdditionalPrice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.AdditionalPriceInput
	if !bindJSON(c, &in) {
		return
	}
	ap, err := ctrl.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ap)
}

// DELETE /api/additional-prices/:id
func (ctrl *AdditionalPriceController) DeleteAdditionalPrice(c *gin.Context) {
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
