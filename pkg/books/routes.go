package books

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers book routes on the Echo instance.
func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	bookService := NewService(db)

	h := &handler{
		bookService: bookService,
	}

	g := e.Group("/books")
	g.GET("", h.list)
	g.GET("/stats", h.stats)
	g.GET("/locations", h.locations)
	g.GET("/:id", h.retrieve)
	g.POST("", h.create)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.deleteBook)
}
