package api

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/RDarrylR/dsql-kabob-store/internal/store"
)

var (
	customerNamePattern = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)
	emailPattern        = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]+>`)
)

// blockedEmailDomains rejects disposable providers.
var blockedEmailDomains = map[string]bool{
	"tempmail.com":      true,
	"throwaway.email":   true,
	"guerrillamail.com": true,
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

type OrderItemInput struct {
	ID       string  `json:"id" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required"`
	Quantity int     `json:"quantity" binding:"required"`
}

type CreateOrderInput struct {
	CustomerName  string           `json:"customer_name" binding:"required"`
	CustomerEmail string           `json:"customer_email" binding:"required"`
	Items         []OrderItemInput `json:"items" binding:"required"`
}

// Validate applies the order policy and returns the normalized input plus the
// server-computed total. Any client-supplied total is never consulted.
func (in CreateOrderInput) Validate() (CreateOrderInput, float64, error) {

	if !customerNamePattern.MatchString(in.CustomerName) {
		return in, 0, &store.ValidationError{
			Field:   "customer_name",
			Message: "name can only contain letters, spaces, hyphens, and apostrophes",
		}
	}
	name := collapseWhitespace(in.CustomerName)
	if name == "" || len(name) > 255 {
		return in, 0, &store.ValidationError{Field: "customer_name", Message: "must be 1-255 characters"}
	}

	email := strings.ToLower(strings.TrimSpace(in.CustomerEmail))
	if len(email) > 255 || !emailPattern.MatchString(email) {
		return in, 0, &store.ValidationError{Field: "customer_email", Message: "must be a valid email address"}
	}
	if blockedEmailDomains[email[strings.LastIndex(email, "@")+1:]] {
		return in, 0, &store.ValidationError{Field: "customer_email", Message: "disposable email addresses are not allowed"}
	}

	if len(in.Items) == 0 || len(in.Items) > 50 {
		return in, 0, &store.ValidationError{Field: "items", Message: "order must contain between 1 and 50 items"}
	}

	seen := make(map[string]bool, len(in.Items))
	total := 0.0
	for i, item := range in.Items {
		field := fmt.Sprintf("items[%d]", i)

		if _, err := uuid.Parse(item.ID); err != nil {
			return in, 0, &store.ValidationError{Field: field + ".id", Message: "invalid UUID format"}
		}
		if seen[item.ID] {
			return in, 0, &store.ValidationError{
				Field:   field + ".id",
				Message: "duplicate items in order, adjust quantities instead",
			}
		}
		seen[item.ID] = true

		itemName := collapseWhitespace(item.Name)
		if itemName == "" || len(itemName) > 255 {
			return in, 0, &store.ValidationError{Field: field + ".name", Message: "must be 1-255 characters"}
		}
		if item.Price <= 0 || item.Price > 10000 {
			return in, 0, &store.ValidationError{Field: field + ".price", Message: "must be greater than 0 and at most 10000"}
		}
		if item.Quantity < 1 || item.Quantity > 100 {
			return in, 0, &store.ValidationError{Field: field + ".quantity", Message: "must be between 1 and 100"}
		}

		in.Items[i].Name = itemName
		total += item.Price * float64(item.Quantity)
	}

	in.CustomerName = name
	in.CustomerEmail = email
	return in, roundPrice(total), nil
}

type MenuItemInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	ImageURL    string  `json:"image_url"`
}

// Validate sanitizes and bounds-checks a menu item payload. Persistence of
// menu items is not implemented, but the payload policy still applies.
func (in MenuItemInput) Validate() (MenuItemInput, error) {

	in.Name = stripHTML(in.Name)
	if in.Name == "" || len(in.Name) > 255 {
		return in, &store.ValidationError{Field: "name", Message: "must be 1-255 characters after sanitization"}
	}

	in.Category = stripHTML(in.Category)
	if in.Category == "" || len(in.Category) > 100 {
		return in, &store.ValidationError{Field: "category", Message: "must be 1-100 characters after sanitization"}
	}

	if in.Description == "" || len(in.Description) > 1000 {
		return in, &store.ValidationError{Field: "description", Message: "must be 1-1000 characters"}
	}

	if in.Price <= 0 {
		return in, &store.ValidationError{Field: "price", Message: "price must be positive"}
	}
	if in.Price > 10000 {
		return in, &store.ValidationError{Field: "price", Message: "price exceeds maximum allowed value"}
	}
	in.Price = roundPrice(in.Price)

	if in.ImageURL != "" {
		if len(in.ImageURL) > 500 {
			return in, &store.ValidationError{Field: "image_url", Message: "must be at most 500 characters"}
		}
		lower := strings.ToLower(in.ImageURL)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			return in, &store.ValidationError{Field: "image_url", Message: "must start with http:// or https://"}
		}
		if !looksLikeImage(lower) {
			return in, &store.ValidationError{Field: "image_url", Message: "must point to an image file"}
		}
	}

	return in, nil
}

func stripHTML(s string) string {
	return collapseWhitespace(htmlTagPattern.ReplaceAllString(s, ""))
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}

func looksLikeImage(lowerURL string) bool {
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lowerURL, ext) || strings.Contains(lowerURL, ext+"?") {
			return true
		}
	}
	return false
}
