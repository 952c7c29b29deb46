package repository

import (
	"context"

	"qualityweb/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
type DocumentRepository interface {
	// List returns all documents ordered by date then id, newest first,
	// with the responsible user's name joined in.
	List(ctx context.Context) ([]model.Document, error)

	// FindByID returns ErrNotFound if the document does not exist.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// Create inserts a document whose file reference is fileURL (may be nil).
	Create(ctx context.Context, in model.DocumentInput, fileURL *string) (*model.Document, error)

	// Update applies a coalesce patch to the metadata. Returns ErrNotFound if absent.
	Update(ctx context.Context, id int64, patch model.DocumentPatch) (*model.Document, error)

	// SetFile points the document at a new file and returns the updated row.
	// Returns ErrNotFound if absent.
	SetFile(ctx context.Context, id int64, fileURL string) (*model.Document, error)

	// Delete removes the row and returns the file reference it held.
	// Returns ErrNotFound if absent.
	Delete(ctx context.Context, id int64) (fileURL *string, err error)
}
