package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RDarrylR/dsql-kabob-store/internal/store"
)

// Store is the slice of the order/menu service the HTTP layer depends on.
type Store interface {
	MenuItems(ctx context.Context) []store.MenuItem
	Orders(ctx context.Context) []store.Order
	CreateOrder(ctx context.Context, customerName, customerEmail string, lines []store.OrderLine, totalAmount float64) (store.Order, error)
	ClearOrders(ctx context.Context) error
	Initialize(ctx context.Context) error
	Counts(ctx context.Context) (menuItems, orders int, err error)
}

type Handler struct {
	store Store
}

func NewHandler(s Store) *Handler {
	return &Handler{store: s}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/health", h.health)

	api.GET("/menu", h.getMenu)
	api.POST("/menu", h.createMenuItem)
	api.GET("/menu/:id", h.getMenuItem)

	api.POST("/orders", h.createOrder)
	api.GET("/orders", h.getOrders)
	api.GET("/orders/:id", h.getOrder)
	api.DELETE("/orders/clear", h.clearOrders)

	api.POST("/initialize", h.initialize)
	api.POST("/update-all-images", h.updateAllImages)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}
