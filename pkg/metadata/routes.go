package metadata

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/config"
)

// RegisterRoutes registers metadata lookup routes on the Echo instance.
func RegisterRoutes(e *echo.Echo, cfg *config.Config) {
	metadataService := NewService(cfg)

	h := &handler{
		metadataService: metadataService,
	}

	g := e.Group("/metadata")
	g.GET("/lookup", h.lookup)
}
