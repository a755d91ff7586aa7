package books

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID *int
}

type ListBooksOptions struct {
	// Search filters by a case-insensitive substring match over title,
	// author, location, and notes. Empty or whitespace-only values are
	// ignored, so the result is identical to an unfiltered list.
	Search *string
}

type UpdateBookOptions struct {
	Columns []string
}

// MutableColumns are the columns an update overwrites. date_added is
// deliberately absent: it reflects creation time only.
var MutableColumns = []string{"title", "author", "isbn", "location", "topic", "notes"}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	// Always stamp creation time, overwriting anything the caller supplied.
	book.DateAdded = time.Now()

	_, err := svc.db.
		NewInsert().
		Model(book).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book)

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	books := []*models.Book{}

	q := svc.db.
		NewSelect().
		Model(&books).
		OrderExpr("b.date_added DESC")

	if opts.Search != nil {
		term := strings.ToLower(strings.TrimSpace(*opts.Search))
		if term != "" {
			// INSTR rather than LIKE so that % and _ in the term are
			// matched literally.
			q = q.Where(
				"(INSTR(LOWER(b.title), ?) > 0 OR INSTR(LOWER(b.author), ?) > 0 OR INSTR(LOWER(b.location), ?) > 0 OR (b.notes IS NOT NULL AND INSTR(LOWER(b.notes), ?) > 0))",
				term, term, term, term,
			)
		}
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return books, nil
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	res, err := svc.db.
		NewUpdate().
		Model(book).
		Column(opts.Columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	// An update against a missing id is reported like a missing read, not
	// treated as an upsert.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Book")
	}

	return nil
}

func (svc *Service) DeleteBook(ctx context.Context, id int) error {
	// Deleting a missing book is a no-op.
	_, err := svc.db.
		NewDelete().
		Model((*models.Book)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) CountBooks(ctx context.Context) (int, error) {
	count, err := svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		Count(ctx)
	return count, errors.WithStack(err)
}

// CountDistinctLocations folds case, so "Shelf A" and "shelf a" count once.
func (svc *Service) CountDistinctLocations(ctx context.Context) (int, error) {
	var count int
	err := svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		ColumnExpr("COUNT(DISTINCT LOWER(b.location))").
		Scan(ctx, &count)
	return count, errors.WithStack(err)
}

// ListDistinctLocations returns location labels as stored, without folding
// case, sorted ascending. Together with CountDistinctLocations this means
// "Shelf A" and "shelf a" count as one location but list as two entries.
// Callers rely on that asymmetry.
func (svc *Service) ListDistinctLocations(ctx context.Context) ([]string, error) {
	locations := []string{}
	err := svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		ColumnExpr("DISTINCT b.location").
		OrderExpr("b.location ASC").
		Scan(ctx, &locations)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return locations, nil
}
