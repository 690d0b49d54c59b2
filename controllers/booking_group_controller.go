package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"guesthouse-backend/services"
	"guesthouse-backend/utils"
)

type BookingGroupController struct {
	GroupSvc   *services.BookingGroupService
	PaymentSvc *services.PaymentService
}

func NewBookingGroupController(svc *services.BookingGroupService, payments *services.PaymentService) *BookingGroupController {
	return &BookingGroupController{GroupSvc: svc, PaymentSvc: payments}
}

// GET /api/booking-groups
func (ctrl *BookingGroupController) GetGroups(c *gin.Context) {
	out, err := ctrl.GroupSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// GET /api/booking-groups/:id
func (ctrl *BookingGroupController) GetGroup(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	g, err := ctrl.GroupSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, g)
}

// POST /api/booking-groups
func (ctrl *BookingGroupController) CreateGroup(c *gin.Context) {
	var in services.BookingGroupInput
	if !bindJSON(c, &in) {
		return
	}
	in.Lang = pickLang(in.Lang, c)
	g, err := ctrl.GroupSvc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, g)
}

// PUT /api/booking-groups/:id/dates
func (ctrl *BookingGroupController) UpdateDates(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.GroupDatesInput
	if !bindJSON(c, &in) {
		return
	}
	in.Lang = pickLang(in.Lang, c)
	g, err := ctrl.GroupSvc.UpdateDates(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, g)
}

// POST /api/booking-groups/:id/cancel
func (ctrl *BookingGroupController) CancelGroup(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	g, err := ctrl.GroupSvc.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, g)
}

// DELETE /api/booking-groups/:id
func (ctrl *BookingGroupController) DeleteGroup(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.GroupSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// GET /api/booking-groups/:id/payments
func (ctrl *BookingGroupController) GetPayments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := ctrl.PaymentSvc.ListForGroup(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// POST /api/booking-groups/:id/payments
func (ctrl *BookingGroupController) AddPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.PaymentInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := ctrl.PaymentSvc.AddToGroup(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, p)
}

// GET /api/booking-groups/:id/ledger
func (ctrl *BookingGroupController) GetLedger(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := ctrl.PaymentSvc.GroupLedger(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}
