// Package catalog holds the authoritative list of offered services.
package catalog

import (
	"strings"

	"github.com/yalldumb/nails-tg-app/internal/models"
)

// Catalog answers membership and lookup queries over the service list.
// It is built once at startup and never mutated, so reads need no locking.
type Catalog struct {
	ordered []models.Service
	byID    map[int64]models.Service
	byTitle map[string]models.Service
}

func New(services []models.Service) *Catalog {
	c := &Catalog{
		ordered: make([]models.Service, len(services)),
		byID:    make(map[int64]models.Service, len(services)),
		byTitle: make(map[string]models.Service, len(services)),
	}
	copy(c.ordered, services)
	for _, s := range services {
		c.byID[s.ID] = s
		c.byTitle[strings.TrimSpace(s.Title)] = s
	}
	return c
}

// ByID looks a service up by its id. A miss is a normal result, not an error.
func (c *Catalog) ByID(id int64) (models.Service, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// ByTitle looks a service up by its display title, ignoring surrounding
// whitespace.
func (c *Catalog) ByTitle(title string) (models.Service, bool) {
	s, ok := c.byTitle[strings.TrimSpace(title)]
	return s, ok
}

// List returns the services in their configured order.
func (c *Catalog) List() []models.Service {
	out := make([]models.Service, len(c.ordered))
	copy(out, c.ordered)
	return out
}
