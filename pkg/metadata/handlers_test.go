package metadata

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/binder"
	"github.com/shelfmark/shelfmark/pkg/config"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, providerURL string) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	RegisterRoutes(e, &config.Config{
		GoogleBooksBaseURL: providerURL,
		LookupTimeout:      2 * time.Second,
	})

	return e
}

func executeRequest(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	return rr
}

func TestLookupHandler(t *testing.T) {
	t.Run("returns a candidate", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"totalItems":1,"items":[{"volumeInfo":{"title":"Dune","authors":["Frank Herbert"],"publishedDate":"1965"}}]}`))
		}))
		defer ts.Close()

		e := setupTestServer(t, ts.URL)
		rr := executeRequest(e, "/metadata/lookup?isbn=978-0-441-01359-3")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp struct {
			Candidate *Candidate `json:"candidate"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.NotNil(t, resp.Candidate)
		assert.Equal(t, "Dune", resp.Candidate.Title)
		assert.Equal(t, "Frank Herbert", resp.Candidate.Author)
		assert.Equal(t, "9780441013593", resp.Candidate.ISBN)
		require.NotNil(t, resp.Candidate.PublishedYear)
		assert.Equal(t, 1965, *resp.Candidate.PublishedYear)
	})

	t.Run("no match is still a 200 with a null candidate", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"totalItems":0}`))
		}))
		defer ts.Close()

		e := setupTestServer(t, ts.URL)
		rr := executeRequest(e, "/metadata/lookup?isbn=9780000000000")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp struct {
			Candidate *Candidate `json:"candidate"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Nil(t, resp.Candidate)
	})

	t.Run("provider failure is still a 200 with a null candidate", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer ts.Close()

		e := setupTestServer(t, ts.URL)
		rr := executeRequest(e, "/metadata/lookup?isbn=9780441013593")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), `"candidate":null`)
	})

	t.Run("rejects a missing isbn param", func(t *testing.T) {
		e := setupTestServer(t, "http://127.0.0.1:0")
		rr := executeRequest(e, "/metadata/lookup")
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "validation_error")
	})
}
