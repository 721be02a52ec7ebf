package handler // handler package contains the show catalog handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/show-catalog/internal/attachment"
	"github.com/iliyamo/show-catalog/internal/service"
)

// ShowHandler exposes the catalog over HTTP.  Create and update accept
// either multipart/form-data (with an optional image file) or JSON.
type ShowHandler struct {
	Catalog     *service.Catalog
	Attachments *attachment.Store
}

// NewShowHandler constructs a ShowHandler and panics if any dependency is nil
func NewShowHandler(catalog *service.Catalog, attachments *attachment.Store) *ShowHandler {
	if catalog == nil || attachments == nil {
		panic("nil dependency passed to NewShowHandler")
	}
	return &ShowHandler{Catalog: catalog, Attachments: attachments}
}

type showForm struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Category    string `json:"category" form:"category"`
}

func (f showForm) input() service.ShowInput {
	return service.ShowInput{Title: f.Title, Description: f.Description, Category: f.Category}
}

// CreateShow handles POST /api/shows.
func (h *ShowHandler) CreateShow(c echo.Context) error {
	in, err := h.bindInput(c)
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	show, err := h.Catalog.Create(ctx, in)
	if err != nil {
		h.dropUpload(in.Image)
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, show)
}

// ListShows handles GET /api/shows.
func (h *ShowHandler) ListShows(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	shows, err := h.Catalog.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, shows)
}

// ListShowsByCategory handles GET /api/shows/category/:category.
func (h *ShowHandler) ListShowsByCategory(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	shows, err := h.Catalog.ListByCategory(ctx, c.Param("category"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, shows)
}

// GetShow handles GET /api/shows/:id.  A non-numeric id cannot match a row
// and is reported as not found.
func (h *ShowHandler) GetShow(c echo.Context) error {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		return respondError(c, service.ErrNotFound)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	show, err := h.Catalog.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, show)
}

// UpdateShow handles PUT /api/shows/:id.  Without a new file the stored
// image is kept, and the response echoes image as null.
func (h *ShowHandler) UpdateShow(c echo.Context) error {
	id, idErr := service.ParseID(c.Param("id"))

	in, err := h.bindInput(c)
	if err != nil {
		return respondError(c, err)
	}
	if idErr != nil {
		h.dropUpload(in.Image)
		return respondError(c, service.ErrNotFound)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	show, err := h.Catalog.Update(ctx, id, in)
	if err != nil {
		h.dropUpload(in.Image)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, show)
}

// DeleteShow handles DELETE /api/shows/:id.
func (h *ShowHandler) DeleteShow(c echo.Context) error {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Catalog.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Show deleted successfully"})
}

// bindInput reads the text fields, validates them and then stores the
// optional image.  Field validation runs first so a rejected request never
// leaves a file behind.
func (h *ShowHandler) bindInput(c echo.Context) (service.ShowInput, error) {
	var form showForm
	if err := c.Bind(&form); err != nil {
		return service.ShowInput{}, service.Invalid("body", "invalid request body")
	}
	in := form.input()
	if err := in.Validate(); err != nil {
		return service.ShowInput{}, err
	}

	fh, err := c.FormFile(attachment.FieldName)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return in, nil
	case err != nil:
		return service.ShowInput{}, service.Invalid(attachment.FieldName, "invalid file upload")
	}

	path, err := h.Attachments.Save(fh)
	switch {
	case errors.Is(err, attachment.ErrTypeNotAllowed):
		return service.ShowInput{}, service.Invalid(attachment.FieldName, "Only images (JPG, PNG) are allowed!")
	case errors.Is(err, attachment.ErrTooLarge):
		return service.ShowInput{}, service.Invalid(attachment.FieldName, "File is too large")
	case err != nil:
		return service.ShowInput{}, err
	}
	in.Image = &path
	return in, nil
}

// dropUpload removes a file saved for a request that then failed.
func (h *ShowHandler) dropUpload(path *string) {
	if path != nil {
		h.Attachments.Discard(context.Background(), *path)
	}
}
