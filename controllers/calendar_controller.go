package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"guesthouse-backend/services"
	"guesthouse-backend/utils"
)

// CalendarController serves date-range prices, overrides and special days.
type CalendarController struct {
	Svc *services.CalendarService
}

func NewCalendarController(svc *services.CalendarService) *CalendarController {
	return &CalendarController{Svc: svc}
}

// GET /api/room-types/:id/date-ranges
func (ctrl *CalendarController) GetDateRanges(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := ctrl.Svc.ListDateRanges(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// POST /api/room-types/:id/date-ranges
func (ctrl *CalendarController) CreateDateRange(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.DateRangeInput
	if !bindJSON(c, &in) {
		return
	}
	r, err := ctrl.Svc.CreateDateRange(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, r)
}

// PUT /api/date-ranges/:id
func (ctrl *CalendarController) UpdateDateRange(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.DateRangeInput
	if !bindJSON(c, &in) {
		return
	}
	r, err := ctrl.Svc.UpdateDateRange(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, r)
}

// DELETE /api/date-ranges/:id
func (ctrl *CalendarController) DeleteDateRange(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Svc.DeleteDateRange(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// GET /api/room-types/:id/overrides?from=&to=
func (ctrl *CalendarController) GetOverrides(c *gin.Context) {
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
	out, err := ctrl.Svc.ListOverrides(c.Request.Context(), id, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// PUT /api/room-types/:id/overrides
// An override with no price, minimum nights or inactive flag is removed.
func (ctrl *CalendarController) UpsertOverride(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.OverrideInput
	if !bindJSON(c, &in) {
		return
	}
	o, err := ctrl.Svc.UpsertOverride(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	if o == nil {
		utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true, "date": in.Date})
		return
	}
	utils.JSONSuccess(c, http.StatusOK, o)
}

// DELETE /api/overrides/:id
func (ctrl *CalendarController) DeleteOverride(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Svc.DeleteOverride(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// GET /api/special-days?from=&to=
func (ctrl *CalendarController) GetSpecialDays(c *gin.Context) {
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}
	out, err := ctrl.Svc.ListSpecialDays(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// POST /api/special-days
func (ctrl *CalendarController) CreateSpecialDay(c *gin.Context) {
	var in services.SpecialDayInput
	if !bindJSON(c, &in) {
		return
	}
	d, err := ctrl.Svc.CreateSpecialDay(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, d)
}

// DELETE /api/special-days/:id
func (ctrl *CalendarController) DeleteSpecialDay(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Svc.DeleteSpecialDay(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}
