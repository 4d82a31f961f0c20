package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/llmstxt-pipeline/internal/auth"
	"github.com/jonesrussell/llmstxt-pipeline/internal/config"
)

// RegisterRoutes wires every §6 endpoint onto router. /health is public,
// /api/auth/* is public (it's how a session is obtained in the first
// place), and every other /api/* route is gated by auth.RequireSession.
func RegisterRoutes(router *gin.Engine, svc *Service, authCfg *config.AuthConfig, h *Handler, authHandler *AuthHandler, healthHandler gin.HandlerFunc) {
	router.GET("/health", healthHandler)

	authGroup := router.Group("/api/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/check", authHandler.Check)

	protected := router.Group("/api")
	protected.Use(auth.RequireSession(authCfg))
	{
		protected.POST("/llm_txt", h.PostLlmTxt)
		protected.PUT("/llm_txt", h.PutLlmTxt)
		protected.GET("/llm_txt", h.GetLlmTxt)
		protected.POST("/update", h.PostUpdate)
		protected.GET("/status", h.GetStatus)
		protected.GET("/job", h.GetJob)
		protected.GET("/jobs/in_progress", h.GetJobsInProgress)
		protected.GET("/list", h.GetList)
	}
}
