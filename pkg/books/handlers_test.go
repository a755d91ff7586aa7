package books

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/binder"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// setupTestServer sets up an Echo server with the book routes registered.
func setupTestServer(t *testing.T, db *bun.DB) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	RegisterRoutes(e, db)

	return e
}

func executeRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	return rr
}

func TestCreateBookHandler(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(t, db)

	t.Run("creates a book", func(t *testing.T) {
		body := `{"title":"The Dispossessed","author":"Ursula K. Le Guin","location":"Shelf A"}`
		rr := executeRequest(e, http.MethodPost, "/books", body)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var book models.Book
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &book))
		assert.NotZero(t, book.ID)
		assert.Equal(t, "The Dispossessed", book.Title)
		assert.False(t, book.DateAdded.IsZero())
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		body := `{"title":"  Solaris  ","author":"Stanisław Lem","location":"Shelf A"}`
		rr := executeRequest(e, http.MethodPost, "/books", body)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var book models.Book
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &book))
		assert.Equal(t, "Solaris", book.Title)
	})

	t.Run("rejects a missing title", func(t *testing.T) {
		body := `{"author":"Nobody","location":"Shelf A"}`
		rr := executeRequest(e, http.MethodPost, "/books", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "validation_error")
	})

	t.Run("rejects an overlong topic", func(t *testing.T) {
		body := fmt.Sprintf(`{"title":"T","author":"A","location":"L","topic":%q}`, strings.Repeat("x", 65))
		rr := executeRequest(e, http.MethodPost, "/books", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		body := `{"title":"T","author":"A","location":"L","date_added":"2020-01-01T00:00:00Z"}`
		rr := executeRequest(e, http.MethodPost, "/books", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestRetrieveBookHandler(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(t, db)
	svc := NewService(db)

	book := createTestBook(t, svc, "Hyperion", "Dan Simmons", "Shelf A")

	t.Run("returns the book", func(t *testing.T) {
		rr := executeRequest(e, http.MethodGet, fmt.Sprintf("/books/%d", book.ID), "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var found models.Book
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &found))
		assert.Equal(t, book.ID, found.ID)
		assert.Equal(t, "Hyperion", found.Title)
	})

	t.Run("404 for a missing id", func(t *testing.T) {
		rr := executeRequest(e, http.MethodGet, "/books/999999", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "not_found")
	})

	t.Run("404 for a non-numeric id", func(t *testing.T) {
		rr := executeRequest(e, http.MethodGet, "/books/abc", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestListBooksHandler(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(t, db)
	svc := NewService(db)

	first := createTestBook(t, svc, "A Wizard of Earthsea", "Ursula K. Le Guin", "Shelf A")
	second := createTestBook(t, svc, "Roadside Picnic", "Arkady Strugatsky", "Shelf B")

	type listResponse struct {
		Books []*models.Book `json:"books"`
		Total int            `json:"total"`
	}

	t.Run("lists newest first", func(t *testing.T) {
		rr := executeRequest(e, http.MethodGet, "/books", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp listResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Equal(t, 2, resp.Total)
		assert.Equal(t, second.ID, resp.Books[0].ID)
		assert.Equal(t, first.ID, resp.Books[1].ID)
	})

	t.Run("filters by search term", func(t *testing.T) {
		rr := executeRequest(e, http.MethodGet, "/books?search=wizard", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp listResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, first.ID, resp.Books[0].ID)
	})

	t.Run("rejects an overlong search term", func(t *testing.T) {
		rr := executeRequest(e, http.MethodGet, "/books?search="+strings.Repeat("a", 101), "")
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestUpdateBookHandler(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(t, db)
	svc := NewService(db)

	t.Run("updates every mutable field", func(t *testing.T) {
		book := createTestBook(t, svc, "Old Title", "Old Author", "Shelf A")

		body := `{"title":"New Title","author":"New Author","location":"Shelf Z","notes":"rebound"}`
		rr := executeRequest(e, http.MethodPatch, fmt.Sprintf("/books/%d", book.ID), body)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var updated models.Book
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
		assert.Equal(t, "New Title", updated.Title)
		assert.Equal(t, "New Author", updated.Author)
		assert.Equal(t, "Shelf Z", updated.Location)
		require.NotNil(t, updated.Notes)
		assert.Equal(t, "rebound", *updated.Notes)
		assert.True(t, updated.DateAdded.Equal(book.DateAdded))
	})

	t.Run("omitted optional fields are cleared", func(t *testing.T) {
		book := &models.Book{
			Title:    "Annotated",
			Author:   "Author",
			Location: "Shelf A",
			Notes:    strPtr("scribbles"),
		}
		require.NoError(t, svc.CreateBook(context.Background(), book))

		body := `{"title":"Annotated","author":"Author","location":"Shelf A"}`
		rr := executeRequest(e, http.MethodPatch, fmt.Sprintf("/books/%d", book.ID), body)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var updated models.Book
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
		assert.Nil(t, updated.Notes)
	})

	t.Run("404 for a missing id", func(t *testing.T) {
		body := `{"title":"T","author":"A","location":"L"}`
		rr := executeRequest(e, http.MethodPatch, "/books/999999", body)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("rejects an invalid payload", func(t *testing.T) {
		book := createTestBook(t, svc, "Valid", "Author", "Shelf A")
		body := `{"title":"","author":"A","location":"L"}`
		rr := executeRequest(e, http.MethodPatch, fmt.Sprintf("/books/%d", book.ID), body)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestDeleteBookHandler(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(t, db)
	svc := NewService(db)

	t.Run("deletes and returns no content", func(t *testing.T) {
		book := createTestBook(t, svc, "Discard", "Author", "Shelf A")

		rr := executeRequest(e, http.MethodDelete, fmt.Sprintf("/books/%d", book.ID), "")
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = executeRequest(e, http.MethodGet, fmt.Sprintf("/books/%d", book.ID), "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("missing id still returns no content", func(t *testing.T) {
		rr := executeRequest(e, http.MethodDelete, "/books/999999", "")
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("404 for a non-numeric id", func(t *testing.T) {
		rr := executeRequest(e, http.MethodDelete, "/books/abc", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestStatsHandler(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(t, db)
	svc := NewService(db)

	createTestBook(t, svc, "One", "Author", "Shelf A")
	createTestBook(t, svc, "Two", "Author", "shelf a")
	createTestBook(t, svc, "Three", "Author", "Shelf B")

	rr := executeRequest(e, http.MethodGet, "/books/stats", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		TotalBooks        int `json:"total_books"`
		DistinctLocations int `json:"distinct_locations"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.TotalBooks)
	assert.Equal(t, 2, resp.DistinctLocations)
}

func TestLocationsHandler(t *testing.T) {
	db := setupTestDB(t)
	e := setupTestServer(t, db)
	svc := NewService(db)

	createTestBook(t, svc, "One", "Author", "Shelf B")
	createTestBook(t, svc, "Two", "Author", "Shelf A")
	createTestBook(t, svc, "Three", "Author", "Shelf A")

	rr := executeRequest(e, http.MethodGet, "/books/locations", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Locations []string `json:"locations"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Shelf A", "Shelf B"}, resp.Locations)
}
