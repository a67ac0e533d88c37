package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/RDarrylR/dsql-kabob-store/internal/db"
)

// SampleMenuItems returns the seed menu as an in-memory fallback for when the
// database cannot be queried. IDs and timestamps are generated per call; the
// rows are not durable.
func SampleMenuItems() []MenuItem {
	seed := db.SeedMenu()
	now := time.Now().UTC()

	items := make([]MenuItem, 0, len(seed))
	for _, s := range seed {
		items = append(items, MenuItem{
			ID:          uuid.NewString(),
			Name:        s.Name,
			Description: s.Description,
			Price:       s.Price,
			Category:    s.Category,
			ImageURL:    s.ImageURL,
			Available:   true,
			CreatedAt:   now,
		})
	}
	return items
}
