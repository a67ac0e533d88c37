package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getMenu(c *gin.Context) {
	items := h.store.MenuItems(c.Request.Context())
	c.JSON(http.StatusOK, items)
}

// createMenuItem validates the payload like any other endpoint, but
// persistence of menu items is not implemented; valid requests get 501.
func (h *Handler) createMenuItem(c *gin.Context) {
	var in MenuItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	if _, err := in.Validate(); err != nil {
		validationError(c, err)
		return
	}
	c.JSON(http.StatusNotImplemented, gin.H{"error": "menu item creation not implemented"})
}

func (h *Handler) getMenuItem(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "individual menu item retrieval not implemented"})
}
