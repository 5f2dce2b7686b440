package domain

import (
	"context"
	"errors"
	"strings"
)

const MaxRows = 100

// Header is the fixed column set of every export.
var Header = []string{"Submitter", "Title", "Category", "Date", "Status"}

// Format selects the document renderer. CSV is the default.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat maps user input to a Format; blank input means CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", ErrInvalidFormat
	}
}

type FilterRequest struct {
	Status   string
	Category string
	Limit    *int
	Format   Format
}

// File is a rendered export document. ID is a ULID shared with the audit entry.
type File struct {
	ID          string
	Name        string
	ContentType string
	Rows        int
	Data        []byte
}

type Service interface {
	ByIDs(ctx context.Context, ids []string, format Format) (File, error)
	ByFilter(ctx context.Context, req FilterRequest) (File, error)
}

var (
	ErrBatchTooLarge = errors.New("batch_too_large")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidLimit  = errors.New("invalid_limit")
	ErrInvalidFormat = errors.New("invalid_format")
)
