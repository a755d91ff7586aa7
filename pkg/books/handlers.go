package books

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
)

type handler struct {
	bookService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, err := h.bookService.ListBooks(ctx, ListBooksOptions{
		Search: params.Search,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Books []*models.Book `json:"books"`
		Total int            `json:"total"`
	}{books, len(books)}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book := &models.Book{
		Title:    params.Title,
		Author:   params.Author,
		ISBN:     params.ISBN,
		Location: params.Location,
		Topic:    params.Topic,
		Notes:    params.Notes,
	}

	if err := h.bookService.CreateBook(ctx, book); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, book))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	// Bind params.
	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// Fetch the book.
	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Overwrite every mutable field with the supplied values. date_added
	// intentionally stays as it was.
	book.Title = params.Title
	book.Author = params.Author
	book.ISBN = params.ISBN
	book.Location = params.Location
	book.Topic = params.Topic
	book.Notes = params.Notes

	err = h.bookService.UpdateBook(ctx, book, UpdateBookOptions{Columns: MutableColumns})
	if err != nil {
		return errors.WithStack(err)
	}

	// Reload the model.
	book, err = h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) deleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	if err := h.bookService.DeleteBook(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) stats(c echo.Context) error {
	ctx := c.Request().Context()

	totalBooks, err := h.bookService.CountBooks(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	distinctLocations, err := h.bookService.CountDistinctLocations(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		TotalBooks        int `json:"total_books"`
		DistinctLocations int `json:"distinct_locations"`
	}{totalBooks, distinctLocations}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) locations(c echo.Context) error {
	ctx := c.Request().Context()

	locations, err := h.bookService.ListDistinctLocations(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Locations []string `json:"locations"`
	}{locations}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
