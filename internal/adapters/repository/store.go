// Package repository defines the results store interface and errors. The
// store owns document lifecycle status and persisted analysis results; the
// analysis core never touches it.
package repository

import (
	"context"
	"time"

	"github.com/samiksha-labs/samiksha/internal/domain/model"
)

// DocumentRecord is a stored document with its failure message, if any.
type DocumentRecord struct {
	model.Document
	// Error carries the failure message for StatusFailed documents.
	Error string
}

// Store provides read/write access to documents and analysis results.
type Store interface {
	// RegisterDocument inserts a document in StatusUploaded. Resubmitting a
	// known id resets it to StatusUploaded and clears any prior failure;
	// re-scoring is deterministic, so an overwrite is safe.
	RegisterDocument(ctx context.Context, doc model.Document) error

	// Document returns the stored record for id.
	// Returns ErrNotFound if the document is unknown.
	Document(ctx context.Context, id string) (DocumentRecord, error)

	// ListDocuments returns every stored record, newest upload first.
	ListDocuments(ctx context.Context) ([]DocumentRecord, error)

	// SetStatus transitions a document's lifecycle status. message is the
	// failure reason for StatusFailed, empty otherwise.
	SetStatus(ctx context.Context, id string, status model.DocumentStatus, message string) error

	// SaveResult persists a completed analysis keyed by document id,
	// overwriting any prior result for that document.
	SaveResult(ctx context.Context, res *model.ProcessingResult, elapsed time.Duration) error

	// Result returns the persisted result for id.
	// Returns ErrNotFound if no result exists.
	Result(ctx context.Context, id string) (*model.ProcessingResult, error)

	// Count returns the number of documents tracked in the store.
	Count(ctx context.Context) int

	// Close releases the underlying database handle.
	Close() error
}
