// Package service implements the catalog and credential operations on top
// of the repositories.  Store failures are wrapped and passed up untouched;
// only missing rows are translated into ErrNotFound.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iliyamo/show-catalog/internal/model"
	"github.com/iliyamo/show-catalog/internal/repository"
)

// ShowStore is the persistence the catalog needs.  *repository.ShowRepo
// implements it.
type ShowStore interface {
	Create(ctx context.Context, s *model.Show) error
	GetByID(ctx context.Context, id int64) (*model.Show, error)
	List(ctx context.Context) ([]model.Show, error)
	ListByCategory(ctx context.Context, category string) ([]model.Show, error)
	Update(ctx context.Context, s *model.Show) error
	Delete(ctx context.Context, id int64) error
	ImageOf(ctx context.Context, id int64) (*string, error)
}

// Janitor disposes of attachments a show no longer references.  Disposal
// is best effort and never fails the calling operation.
type Janitor interface {
	Discard(ctx context.Context, path string)
}

type nopJanitor struct{}

func (nopJanitor) Discard(context.Context, string) {}

// ShowInput is the writable part of a show as submitted by a client.
type ShowInput struct {
	Title       string
	Description string
	Category    string
	Image       *string
}

// Validate reports every missing or malformed field at once.  Blank text
// counts as missing; accepted text is stored exactly as submitted.
func (in ShowInput) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(in.Title) == "" {
		verr.Add("title", "Title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		verr.Add("description", "Description is required")
	}
	if !model.Category(in.Category).Valid() {
		verr.Add("category", "Category must be movie, anime, or serie")
	}
	return verr.OrNil()
}

func (in ShowInput) show(id int64) model.Show {
	return model.Show{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Category:    model.Category(in.Category),
		Image:       in.Image,
	}
}

// Catalog validates and executes show operations.
type Catalog struct {
	shows   ShowStore
	janitor Janitor
}

// NewCatalog wires a catalog to its store.  A nil janitor leaves replaced
// attachments on disk.
func NewCatalog(shows ShowStore, janitor Janitor) *Catalog {
	if shows == nil {
		panic("nil show store passed to NewCatalog")
	}
	if janitor == nil {
		janitor = nopJanitor{}
	}
	return &Catalog{shows: shows, janitor: janitor}
}

// ParseID converts a path id into a show id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, Invalid("id", "ID must be an integer")
	}
	return id, nil
}

// Create inserts a new show and returns it with its assigned id.
func (c *Catalog) Create(ctx context.Context, in ShowInput) (model.Show, error) {
	if err := in.Validate(); err != nil {
		return model.Show{}, err
	}
	s := in.show(0)
	if err := c.shows.Create(ctx, &s); err != nil {
		return model.Show{}, fmt.Errorf("create show: %w", err)
	}
	return s, nil
}

// List returns every show ordered by title.
func (c *Catalog) List(ctx context.Context) ([]model.Show, error) {
	shows, err := c.shows.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	return shows, nil
}

// ListByCategory returns the shows of one category ordered by title.  An
// unrecognised category yields an empty list.
func (c *Catalog) ListByCategory(ctx context.Context, category string) ([]model.Show, error) {
	shows, err := c.shows.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list shows by category: %w", err)
	}
	return shows, nil
}

// Get returns a single show.
func (c *Catalog) Get(ctx context.Context, id int64) (model.Show, error) {
	s, err := c.shows.GetByID(ctx, id)
	if err != nil {
		return model.Show{}, notFoundOr(err, "get show")
	}
	return *s, nil
}

// Update overwrites a show's fields.  Without a new image the stored one is
// kept, and the returned show echoes the input: its Image is nil in that
// case even though the row still has one.  A replaced image is handed to
// the janitor after the row is updated.
func (c *Catalog) Update(ctx context.Context, id int64, in ShowInput) (model.Show, error) {
	if err := in.Validate(); err != nil {
		return model.Show{}, err
	}
	var prev *string
	if in.Image != nil {
		p, err := c.shows.ImageOf(ctx, id)
		if err != nil {
			return model.Show{}, notFoundOr(err, "load show image")
		}
		prev = p
	}
	s := in.show(id)
	if err := c.shows.Update(ctx, &s); err != nil {
		return model.Show{}, notFoundOr(err, "update show")
	}
	if prev != nil && *prev != *in.Image {
		c.janitor.Discard(ctx, *prev)
	}
	return s, nil
}

// Delete removes a show and discards its image.
func (c *Catalog) Delete(ctx context.Context, id int64) error {
	img, err := c.shows.ImageOf(ctx, id)
	if err != nil {
		return notFoundOr(err, "load show image")
	}
	if err := c.shows.Delete(ctx, id); err != nil {
		return notFoundOr(err, "delete show")
	}
	if img != nil {
		c.janitor.Discard(ctx, *img)
	}
	return nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, repository.ErrShowNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
