package catalog

import (
	"context"
	"errors"
	"fmt"
)

var ErrInvalidTemplate = errors.New("invalid template")

// Template is one entry of the drawing template catalog. The id doubles as the session id
// clients join; the server never validates sessions against the catalog.
type Template struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Store lists the catalog in display order
type Store interface {
	List(ctx context.Context) ([]Template, error)
}

// Validate checks that every template has an id, a URL and a unique id
func Validate(templates []Template) error {
	seen := make(map[string]struct{}, len(templates))
	for i, t := range templates {
		if t.ID == "" {
			return fmt.Errorf("%w: entry %d has no id", ErrInvalidTemplate, i)
		}
		if t.URL == "" {
			return fmt.Errorf("%w: %s has no url", ErrInvalidTemplate, t.ID)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidTemplate, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}
