package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	Title     string    `bun:",nullzero" json:"title"`
	Author    string    `bun:",nullzero" json:"author"`
	ISBN      *string   `json:"isbn"`
	Location  string    `bun:",nullzero" json:"location"`
	Topic     *string   `json:"topic"`
	Notes     *string   `json:"notes"`
	DateAdded time.Time `json:"date_added"`
}
