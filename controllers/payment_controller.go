package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"guesthouse-backend/services"
	"guesthouse-backend/utils"
)

type PaymentController struct {
	Svc *services.PaymentService
}

func NewPaymentController(svc *services.PaymentService) *PaymentController {
	return &PaymentController{Svc: svc}
}

// DELETE /api/payments/:id
func (ctrl *PaymentController) DeletePayment(c *gin.Context) {
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
