package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"landscaping/internal/pkg/request"
	"landscaping/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/jobs/:id")
	{
		jobs.POST("/invoice/sent", h.MarkInvoiceSent)
		jobs.GET("/invoice", h.Invoice)
		jobs.GET("/payments", h.ListPayments)
		jobs.POST("/payments", h.RecordPayment)
	}
}

func (h *Handler) MarkInvoiceSent(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	j, err := h.service.MarkInvoiceSent(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, j)
}

func (h *Handler) Invoice(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	inv, err := h.service.Invoice(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, inv)
}

func (h *Handler) ListPayments(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	payments, err := h.service.Payments(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, payments)
}

func (h *Handler) RecordPayment(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req PaymentInput
	if !request.JSON(c, &req) {
		return
	}
	receipt, err := h.service.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, receipt)
}
