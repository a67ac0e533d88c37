package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RDarrylR/dsql-kabob-store/internal/logger"
)

// clearOrders deletes every order. Unprotected; development only. In
// production this must be authenticated and restricted, or removed.
func (h *Handler) clearOrders(c *gin.Context) {
	if err := h.store.ClearOrders(c.Request.Context()); err != nil {
		logger.Error("clear orders failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all orders deleted from the database"})
}

// initialize re-runs schema and seed initialization on demand. Unprotected;
// development only. Non-destructive: seeding is skipped when menu items exist.
func (h *Handler) initialize(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.store.Initialize(ctx); err != nil {
		logger.Error("database initialization failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initialize database"})
		return
	}

	menuCount, orderCount, err := h.store.Counts(ctx)
	if err != nil {
		logger.Error("count query failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initialize database"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "database initialized successfully",
		"menu_items_count": menuCount,
		"orders_count":     orderCount,
	})
}

func (h *Handler) updateAllImages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "images already updated in sample data"})
}
