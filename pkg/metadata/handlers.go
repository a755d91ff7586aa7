package metadata

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	metadataService *Service
}

// lookup suggests bibliographic fields for an ISBN. A lookup that finds
// nothing is still a 200 with a null candidate; provider failures never
// produce an error response.
func (h *handler) lookup(c echo.Context) error {
	ctx := c.Request().Context()

	params := LookupQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	candidate := h.metadataService.Lookup(ctx, params.ISBN)

	resp := struct {
		Candidate *Candidate `json:"candidate"`
	}{candidate}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
