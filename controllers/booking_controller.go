// controllers/booking_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"guesthouse-backend/models"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"
)

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc *services.BookingService
	PaymentSvc *services.PaymentService
}

func NewBookingController(svc *services.BookingService, payments *services.PaymentService) *BookingController {
	return &BookingController{BookingSvc: svc, PaymentSvc: payments}
}

// ---------------------------
// 1) List / details
// ---------------------------

// GET /api/bookings?roomId=&status=&from=&to=
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	roomID, ok := queryUint(c, "roomId")
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
	out, err := ctrl.BookingSvc.List(c.Request.Context(), services.BookingFilter{
		RoomID: roomID,
		Status: models.BookingStatus(c.Query("status")),
		From:   from,
		To:     to,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// GET /api/bookings/:id
func (ctrl *BookingController) GetBookingDetails(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b, err := ctrl.BookingSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// ---------------------------
// 2) Create / update / cancel / delete
// ---------------------------

// POST /api/bookings
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var in services.BookingInput
	if !bindJSON(c, &in) {
		return
	}
	in.Lang = pickLang(in.Lang, c)
	b, err := ctrl.BookingSvc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, b)
}

// PUT /api/bookings/:id
func (ctrl *BookingController) UpdateBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.BookingUpdateInput
	if !bindJSON(c, &in) {
		return
	}
	in.Lang = pickLang(in.Lang, c)
	b, err := ctrl.BookingSvc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// POST /api/bookings/:id/cancel
func (ctrl *BookingController) CancelBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b, err := ctrl.BookingSvc.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// DELETE /api/bookings/:id
func (ctrl *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.BookingSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// ---------------------------
// 3) Price lines
// ---------------------------

// GET /api/bookings/:id/price-lines
func (ctrl *BookingController) GetPriceLines(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := ctrl.BookingSvc.ListPriceLines(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// POST /api/bookings/:id/price-lines
func (ctrl *BookingController) AddPriceLine(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.PriceLineInput
	if !bindJSON(c, &in) {
		return
	}
	in.Lang = pickLang(in.Lang, c)
	line, err := ctrl.BookingSvc.AddPriceLine(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, line)
}

// DELETE /api/bookings/:id/price-lines/:lineId
func (ctrl *BookingController) RemovePriceLine(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	lineID, ok := paramID(c, "lineId")
	if !ok {
		return
	}
	if err := ctrl.BookingSvc.RemovePriceLine(c.Request.Context(), id, lineID); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": lineID})
}

// ---------------------------
// 4) Payments / ledger
// ---------------------------

// GET /api/bookings/:id/payments
func (ctrl *BookingController) GetPayments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := ctrl.PaymentSvc.ListForBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// POST /api/bookings/:id/payments
func (ctrl *BookingController) AddPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.PaymentInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := ctrl.PaymentSvc.AddToBooking(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, p)
}

// GET /api/bookings/:id/ledger
func (ctrl *BookingController) GetLedger(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := ctrl.PaymentSvc.BookingLedger(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}
