package directory

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

func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.service.ListClients(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, clients)
}

func (h *Handler) CreateClient(c *gin.Context) {
	var req ClientInput
	if !request.JSON(c, &req) {
		return
	}
	client, err := h.service.CreateClient(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, client)
}

func (h *Handler) GetClient(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	client, err := h.service.GetClient(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, client)
}

func (h *Handler) UpdateClient(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req ClientInput
	if !request.JSON(c, &req) {
		return
	}
	client, err := h.service.UpdateClient(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, client)
}

func (h *Handler) DeleteClient(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteClient(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) ListCrews(c *gin.Context) {
	crews, err := h.service.ListCrews(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, crews)
}

func (h *Handler) CreateCrew(c *gin.Context) {
	var req NameInput
	if !request.JSON(c, &req) {
		return
	}
	crew, err := h.service.CreateCrew(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, crew)
}

func (h *Handler) GetCrew(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	crew, err := h.service.GetCrew(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, crew)
}

func (h *Handler) UpdateCrew(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req NameInput
	if !request.JSON(c, &req) {
		return
	}
	crew, err := h.service.UpdateCrew(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, crew)
}

func (h *Handler) DeleteCrew(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteCrew(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.service.ListMembers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, members)
}

func (h *Handler) CreateMember(c *gin.Context) {
	var req NameInput
	if !request.JSON(c, &req) {
		return
	}
	member, err := h.service.CreateMember(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, member)
}

func (h *Handler) GetMember(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	member, err := h.service.GetMember(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, member)
}

func (h *Handler) UpdateMember(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req NameInput
	if !request.JSON(c, &req) {
		return
	}
	member, err := h.service.UpdateMember(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, member)
}

func (h *Handler) DeleteMember(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteMember(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}
