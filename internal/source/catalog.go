package source

import (
	"context"
	"fmt"
	"sort"

	"github.com/Aman-CERP/appcli/internal/command"
	apperrors "github.com/Aman-CERP/appcli/internal/errors"
)

// Well-known source identifiers.
const (
	Framework = "framework"
	Installer = "installer"
	Modules   = "modules"
	Vendor    = "vendor"
)

// DefaultOrder is the priority order used when configuration names none.
var DefaultOrder = []string{Framework, Installer, Modules, Vendor}

// Catalog is the static set of sources a binary was built with.
type Catalog struct {
	entries map[string]Source
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]Source)}
}

// Register adds src under its name, replacing any previous entry.
func (c *Catalog) Register(src Source) {
	c.entries[src.Name()] = src
}

// Names returns the registered identifiers, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for n := range c.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the sources named by ids, in order. An identifier the
// catalog does not know resolves to a source that fails when queried, so the
// failure surfaces at its position in the order.
func (c *Catalog) Resolve(ids []string) []Source {
	out := make([]Source, 0, len(ids))
	for _, id := range ids {
		if src, ok := c.entries[id]; ok {
			out = append(out, src)
			continue
		}
		out = append(out, &unknown{id: id, known: c.Names()})
	}
	return out
}

// unknown stands in for an identifier that is not in the catalog.
type unknown struct {
	id    string
	known []string
}

func (u *unknown) Name() string { return u.id }

func (u *unknown) Commands(context.Context) ([]command.Command, error) {
	return nil, apperrors.New(apperrors.ErrCodeUnknownSource,
		fmt.Sprintf("unknown command source %q", u.id), nil).
		WithDetail("source", u.id).
		WithSuggestion(fmt.Sprintf("Known sources: %v", u.known))
}
