package admin

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/wolfman30/mhrs-booking/internal/textsearch"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

var (
	ErrDeclined = errors.New("admin: action declined")
	ErrNotFound = errors.New("admin: record not found")
	ErrReadOnly = errors.New("admin: records cannot be created here")
	ErrNoID     = errors.New("admin: server returned a record without id")
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// GridSpec describes one entity collection. Create may be nil for
// collections the backend does not let admins create.
type GridSpec[T any] struct {
	Name         string
	Key          func(T) string
	Text         func(T) string
	List         func(ctx context.Context) ([]T, error)
	Create       func(ctx context.Context, item T) (*T, error)
	Delete       func(ctx context.Context, key string) error
	DeletePrompt string
}

// Grid holds the loaded rows of one admin collection. Network calls run
// outside the lock; local state changes only after the server accepted them.
type Grid[T any] struct {
	spec    GridSpec[T]
	confirm Confirmer
	logger  *logging.Logger

	mu       sync.RWMutex
	items    []T
	onDelete []func(T)
}

func NewGrid[T any](spec GridSpec[T], confirm Confirmer, logger *logging.Logger) *Grid[T] {
	if logger == nil {
		logger = logging.Default()
	}
	return &Grid[T]{spec: spec, confirm: confirm, logger: logger.With("grid", spec.Name)}
}

func (g *Grid[T]) Name() string { return g.spec.Name }

// CanCreate reports whether Create is supported.
func (g *Grid[T]) CanCreate() bool { return g.spec.Create != nil }

// Load replaces the rows with the server's list. On failure the grid is left empty.
func (g *Grid[T]) Load(ctx context.Context) error {
	items, err := g.spec.List(ctx)
	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.items = nil
		g.logger.Error("failed to load grid", "error", err)
		return err
	}
	g.items = items
	return nil
}

// Items returns a copy of every row.
func (g *Grid[T]) Items() []T {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]T(nil), g.items...)
}

func (g *Grid[T]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.items)
}

// Filter returns the rows whose display text contains query, compared
// case-insensitively under Turkish rules. A blank query returns every row.
func (g *Grid[T]) Filter(query string) []T {
	return textsearch.Filter(g.Items(), query, g.spec.Text)
}

// Find looks a row up by key.
func (g *Grid[T]) Find(key string) (T, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if i := g.indexOf(key); i >= 0 {
		return g.items[i], true
	}
	var zero T
	return zero, false
}

// Create posts item and reconciles the server's record into the grid.
func (g *Grid[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	if g.spec.Create == nil {
		return zero, ErrReadOnly
	}
	created, err := g.spec.Create(ctx, item)
	if err != nil {
		return zero, err
	}
	if created == nil || strings.TrimSpace(g.spec.Key(*created)) == "" {
		g.logger.Warn("create returned a record without id")
		return zero, fmt.Errorf("create %s: %w", g.spec.Name, ErrNoID)
	}
	g.Adopt(*created)
	return *created, nil
}

// Adopt inserts a record created elsewhere, replacing any row with the same key.
func (g *Grid[T]) Adopt(item T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i := g.indexOf(g.spec.Key(item)); i >= 0 {
		g.items[i] = item
		return
	}
	g.items = append(g.items, item)
}

// Delete asks for confirmation, deletes on the server and then drops the
// row. Declining returns ErrDeclined without any request.
func (g *Grid[T]) Delete(ctx context.Context, key string) error {
	item, ok := g.Find(key)
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrNotFound, g.spec.Name, key)
	}
	if g.confirm != nil {
		yes, err := g.confirm.Confirm(ctx, g.spec.DeletePrompt)
		if err != nil {
			return err
		}
		if !yes {
			return ErrDeclined
		}
	}
	if err := g.spec.Delete(ctx, key); err != nil {
		return err
	}

	g.mu.Lock()
	if i := g.indexOf(key); i >= 0 {
		g.items = append(g.items[:i:i], g.items[i+1:]...)
	}
	hooks := slices.Clone(g.onDelete)
	g.mu.Unlock()

	for _, fn := range hooks {
		fn(item)
	}
	return nil
}

// OnDelete registers fn to run after a row is deleted on the server.
func (g *Grid[T]) OnDelete(fn func(T)) {
	g.mu.Lock()
	g.onDelete = append(g.onDelete, fn)
	g.mu.Unlock()
}

// RemoveWhere drops matching rows locally and returns how many went.
func (g *Grid[T]) RemoveWhere(match func(T) bool) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	kept := g.items[:0:0]
	for _, it := range g.items {
		if !match(it) {
			kept = append(kept, it)
		}
	}
	removed := len(g.items) - len(kept)
	g.items = kept
	return removed
}

func (g *Grid[T]) indexOf(key string) int {
	for i, it := range g.items {
		if g.spec.Key(it) == key {
			return i
		}
	}
	return -1
}
