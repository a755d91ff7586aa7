package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shelfmark/shelfmark/pkg/config"
)

// Candidate is a best-effort set of bibliographic fields suggested to
// pre-fill a new book record. It is never persisted.
type Candidate struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn"`
	Publisher     string `json:"publisher"`
	PublishedYear *int   `json:"published_year,omitempty"`
	Description   string `json:"description"`
}

// volumeList mirrors the Google Books volumes response. Only the first
// item's volumeInfo is read; industryIdentifiers is accepted but unused.
type volumeList struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo volumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

type volumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Publisher           string               `json:"publisher"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type Service struct {
	baseURL string
	client  *http.Client
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		baseURL: cfg.GoogleBooksBaseURL,
		client:  &http.Client{Timeout: cfg.LookupTimeout},
	}
}

// NormalizeISBN strips dashes and spaces so scanned and hand-typed ISBNs
// query the same way.
func NormalizeISBN(isbn string) string {
	normalized := strings.ReplaceAll(isbn, "-", "")
	normalized = strings.ReplaceAll(normalized, " ", "")
	return strings.TrimSpace(normalized)
}

// Lookup fetches bibliographic data for an ISBN. It returns nil when no
// data is available for any reason: blank input, provider unreachable,
// non-success status, unparseable body, or zero matches. Failures are
// logged and never surfaced to the caller. One provider, one request, no
// retries; a slow provider is cut off by the client timeout and treated
// the same as no data.
func (svc *Service) Lookup(ctx context.Context, isbn string) *Candidate {
	if strings.TrimSpace(isbn) == "" {
		return nil
	}

	normalized := NormalizeISBN(isbn)

	candidate, err := svc.fetchVolume(ctx, normalized)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Err(err).Warn("book metadata lookup failed", logger.Data{"isbn": normalized})
		return nil
	}

	return candidate
}

func (svc *Service) fetchVolume(ctx context.Context, isbn string) (*Candidate, error) {
	url := fmt.Sprintf("%s/volumes?q=isbn:%s", svc.baseURL, isbn)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	resp, err := svc.client.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("metadata provider returned status %d", resp.StatusCode)
	}

	volumes := volumeList{}
	if err := json.NewDecoder(resp.Body).Decode(&volumes); err != nil {
		return nil, errors.Wrap(err, "failed to decode metadata provider response")
	}

	if len(volumes.Items) == 0 {
		// A valid response with no matches isn't a failure.
		return nil, nil
	}

	// First item only; the provider's own ranking is good enough for a
	// pre-fill suggestion.
	info := volumes.Items[0].VolumeInfo

	return &Candidate{
		Title:         info.Title,
		Author:        strings.Join(info.Authors, ", "),
		ISBN:          isbn,
		Publisher:     info.Publisher,
		PublishedYear: publishedYear(info.PublishedDate),
		Description:   info.Description,
	}, nil
}

// publishedYear derives a year from the provider's free-text published
// date. A full date parse wins; otherwise the first dash-separated segment
// is tried as an integer; otherwise no year is reported.
func publishedYear(publishedDate string) *int {
	if publishedDate == "" {
		return nil
	}

	if t, err := time.Parse("2006-01-02", publishedDate); err == nil {
		year := t.Year()
		return &year
	}

	segment := strings.SplitN(publishedDate, "-", 2)[0]
	if year, err := strconv.Atoi(strings.TrimSpace(segment)); err == nil {
		return &year
	}

	return nil
}
