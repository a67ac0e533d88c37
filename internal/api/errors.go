package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/RDarrylR/dsql-kabob-store/internal/store"
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// bindError converts JSON binding failures into sanitized field errors so
// decoder internals never reach the client.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, fieldError{
				Field:   fe.Field(),
				Message: "failed '" + fe.Tag() + "' validation",
				Type:    fe.Tag(),
			})
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation error", "errors": out})
		return
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  "validation error",
		"errors": []fieldError{{Field: "body", Message: "malformed request body", Type: "invalid_json"}},
	})
}

func validationError(c *gin.Context, err error) {
	var verr *store.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation error",
			"errors": []fieldError{{Field: verr.Field, Message: verr.Message, Type: "value_error"}},
		})
		return
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation error"})
}
