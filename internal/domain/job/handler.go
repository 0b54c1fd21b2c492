package job

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"landscaping/internal/domain"
	"landscaping/internal/pkg/request"
	"landscaping/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.BindError(c, err)
		return
	}
	jobs, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, jobs)
}

func (h *Handler) Create(c *gin.Context) {
	var req Input
	if !request.JSON(c, &req) {
		return
	}
	j, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, j)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	j, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, j)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req Input
	if !request.JSON(c, &req) {
		return
	}
	j, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, j)
}

// Calendar handles GET /api/v1/jobs/calendar?year=2024&month=5. Missing values mean the current month.
func (h *Handler) Calendar(c *gin.Context) {
	cur := h.service.CurrentMonth()
	year, err := intQuery(c, "year", cur.Year)
	if err != nil {
		response.FromError(c, err)
		return
	}
	month, err := intQuery(c, "month", cur.Month)
	if err != nil {
		response.FromError(c, err)
		return
	}
	cal, err := h.service.Calendar(c.Request.Context(), year, month)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cal)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req StatusInput
	if !request.JSON(c, &req) {
		return
	}
	j, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, j)
}

func (h *Handler) Complete(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req CompleteInput
	if !request.JSON(c, &req) {
		return
	}
	j, err := h.service.Complete(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, j)
}

func (h *Handler) AssignMembers(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req MembersInput
	if !request.JSON(c, &req) {
		return
	}
	j, err := h.service.AssignMembers(c.Request.Context(), id, req.MemberIDs)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, j)
}

func (h *Handler) NotifyOnMyWay(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	j, err := h.service.NotifyOnMyWay(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, j)
}

func (h *Handler) AddTask(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	var req TaskInput
	if !request.JSON(c, &req) {
		return
	}
	t, err := h.service.AddTask(c.Request.Context(), id, req.Description)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

func (h *Handler) ToggleTask(c *gin.Context) {
	id, ok := request.ID(c, "id")
	if !ok {
		return
	}
	t, err := h.service.ToggleTask(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Invalid("%s must be an integer", name)
	}
	return v, nil
}
