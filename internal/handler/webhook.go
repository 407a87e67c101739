package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"core/internal/config"
	"core/internal/logger"
	"core/internal/service"
	"core/internal/transport"
)

// BotHandler exposes the webhook endpoint and a small ops API over the
// engine.
type BotHandler struct {
	engine *service.Engine
	log    logger.Logger
}

// NewBotHandler creates the handler set.
func NewBotHandler(engine *service.Engine, log logger.Logger) *BotHandler {
	return &BotHandler{engine: engine, log: log}
}

// Webhook handles POST <webhook path>: one Telegram update per request.
// The transport retries on non-200, so malformed bodies are acknowledged
// with 200 after logging instead of being redelivered forever.
func (h *BotHandler) Webhook(c *gin.Context) {
	var update transport.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.log.WithError(err).Warn("unreadable webhook update")
		c.Status(http.StatusOK)
		return
	}
	h.engine.HandleUpdate(c.Request.Context(), update)
	c.Status(http.StatusOK)
}

// matchRequest is the ops search request body.
type matchRequest struct {
	Query string `json:"query" binding:"required"`
}

// Match handles POST /api/v1/match: criteria extraction plus ranking against
// the current inventory, without capturing a lead.
func (h *BotHandler) Match(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	criteria, results, err := h.engine.Match(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Match failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"criteria": criteria,
		"results":  results,
		"total":    len(results),
	})
}

// NewRouter assembles the gin router with CORS, health and all routes.
func NewRouter(h *BotHandler, cfg *config.ServerConfig, webhookPath string) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "rental-listing-engine",
		})
	})

	router.POST(webhookPath, h.Webhook)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/match", h.Match)
	}

	return router
}
