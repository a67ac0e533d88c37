package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RDarrylR/dsql-kabob-store/internal/logger"
	"github.com/RDarrylR/dsql-kabob-store/internal/store"
)

func (h *Handler) createOrder(c *gin.Context) {
	var in CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}

	valid, total, err := in.Validate()
	if err != nil {
		validationError(c, err)
		return
	}

	lines := make([]store.OrderLine, 0, len(valid.Items))
	for _, item := range valid.Items {
		lines = append(lines, store.OrderLine{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	order, err := h.store.CreateOrder(c.Request.Context(), valid.CustomerName, valid.CustomerEmail, lines, total)
	if err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			validationError(c, verr)
			return
		}
		logger.Error("order creation failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *Handler) getOrders(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Orders(c.Request.Context()))
}

func (h *Handler) getOrder(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "individual order retrieval not implemented"})
}
