package api

import (
	"context"
	"fmt"
)

// Collection is the CRUD surface shared by most platform objects:
// GET/POST on path, GET/PUT/DELETE on path/{id}.
type Collection[T any] struct {
	c    *Client
	path string
	// duplicate builds the duplicate endpoint; nil when the backend has none.
	duplicate func(id int) string
}

func newCollection[T any](c *Client, path string, duplicate func(int) string) *Collection[T] {
	return &Collection[T]{c: c, path: path, duplicate: duplicate}
}

func (col *Collection[T]) item(id int) string {
	return fmt.Sprintf("%s/%d", col.path, id)
}

// List fetches every object.
func (col *Collection[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := col.c.get(ctx, col.path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one object.
func (col *Collection[T]) Get(ctx context.Context, id int) (*T, error) {
	var out T
	if err := col.c.get(ctx, col.item(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new object and returns it as stored.
func (col *Collection[T]) Create(ctx context.Context, payload T) (*T, error) {
	var out T
	if err := col.c.post(ctx, col.path, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces an object and returns it as stored.
func (col *Collection[T]) Update(ctx context.Context, id int, payload T) (*T, error) {
	var out T
	if err := col.c.put(ctx, col.item(id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Remove deletes an object.
func (col *Collection[T]) Remove(ctx context.Context, id int) error {
	return col.c.delete(ctx, col.item(id), nil, nil)
}

// Duplicate asks the backend for a copy of an object.
func (col *Collection[T]) Duplicate(ctx context.Context, id int) (*T, error) {
	if col.duplicate == nil {
		return nil, fmt.Errorf("duplicate %s: %w", col.path, ErrUnsupported)
	}
	var out T
	if err := col.c.post(ctx, col.duplicate(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
