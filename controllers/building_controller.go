package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"guesthouse-backend/services"
	"guesthouse-backend/utils"
)

type BuildingController struct {
	Svc *services.BuildingService
}

func NewBuildingController(svc *services.BuildingService) *BuildingController {
	return &BuildingController{Svc: svc}
}

// GET /api/buildings
func (ctrl *BuildingController) GetBuildings(c *gin.Context) {
	out, err := ctrl.Svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// GET /api/buildings/:id
func (ctrl *BuildingController) GetBuilding(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b, err := ctrl.Svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// POST /api/buildings
func (ctrl *BuildingController) CreateBuilding(c *gin.Context) {
	var in services.BuildingInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := ctrl.Svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, b)
}

// PUT /api/buildings/:id
func (ctrl *BuildingController) UpdateBuilding(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.BuildingInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := ctrl.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// DELETE /api/buildings/:id
func (ctrl *BuildingController) DeleteBuilding(c *gin.Context) {
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
