package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"guesthouse-backend/models"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"
)

type ReservationController struct {
	Svc *services.ReservationService
}

func NewReservationController(svc *services.ReservationService) *ReservationController {
	return &ReservationController{Svc: svc}
}

// GET /api/reservations?status=&kind=&from=&to=&q=&sort=&page=&pageSize=
func (ctrl *ReservationController) GetReservations(c *gin.Context) {
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	pageSize, ok := queryInt(c, "pageSize", 20)
	if !ok {
		return
	}
	out, err := ctrl.Svc.List(c.Request.Context(), services.ReservationFilter{
		Status:   models.BookingStatus(c.Query("status")),
		Kind:     services.ReservationKind(c.Query("kind")),
		From:     from,
		To:       to,
		Search:   c.Query("q"),
		Sort:     c.Query("sort"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}
