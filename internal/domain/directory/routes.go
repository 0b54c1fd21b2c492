package directory

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clients := r.Group("/clients")
	{
		clients.GET("", h.ListClients)
		clients.POST("", h.CreateClient)
		clients.GET("/:id", h.GetClient)
		clients.PUT("/:id", h.UpdateClient)
		clients.DELETE("/:id", h.DeleteClient)
	}

	crews := r.Group("/crews")
	{
		crews.GET("", h.ListCrews)
		crews.POST("", h.CreateCrew)
		crews.GET("/:id", h.GetCrew)
		crews.PUT("/:id", h.UpdateCrew)
		crews.DELETE("/:id", h.DeleteCrew)
	}

	members := r.Group("/members")
	{
		members.GET("", h.ListMembers)
		members.POST("", h.CreateMember)
		members.GET("/:id", h.GetMember)
		members.PUT("/:id", h.UpdateMember)
		members.DELETE("/:id", h.DeleteMember)
	}
}
