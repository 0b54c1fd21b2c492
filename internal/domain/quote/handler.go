package quote

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
	quotes := r.Group("/quotes")
	{
		quotes.GET("", h.List)
		quotes.POST("", h.Create)
		quotes.GET("/:id", h.Get)
		quotes.POST("/:id/send", h.Send)
		quotes.POST("/:id/accept", h.Accept)
		quotes.POST("/:id/decline", h.Decline)
	}
}

// List handles GET /api/v1/quotes?status=Sent
func (h *Handler) List(c *gin.Context) {
	quotes, err := h.service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, quotes)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateInput
	if !request.JSON(c, &req) {
		return
	}
	q, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, q)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	q, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

func (h *Handler) Send(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	q, err := h.service.Send(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

// Accept responds 201 when a job was created and 200 when the quote was already accepted.
func (h *Handler) Accept(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	res, err := h.service.Accept(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	response.Success(c, status, res)
}

func (h *Handler) Decline(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	q, err := h.service.Decline(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}
