package job

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/jobs")
	{
		jobs.GET("", h.List)
		jobs.POST("", h.Create)
		jobs.GET("/calendar", h.Calendar)
		jobs.GET("/:id", h.Get)
		jobs.PUT("/:id", h.Update)

		// lifecycle
		jobs.POST("/:id/status", h.UpdateStatus)
		jobs.POST("/:id/complete", h.Complete)
		jobs.POST("/:id/notify", h.NotifyOnMyWay)
		jobs.PUT("/:id/members", h.AssignMembers)

		jobs.POST("/:id/tasks", h.AddTask)
	}

	r.POST("/tasks/:id/toggle", h.ToggleTask)
}
