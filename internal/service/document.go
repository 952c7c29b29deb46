package service

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"qualityweb/internal/apperror"
	"qualityweb/internal/model"
	"qualityweb/internal/repository"
	"qualityweb/internal/storage"
	"qualityweb/internal/upload"
)

// documentPrefix is the storage key prefix for document blobs.
const documentPrefix = "documentos"

// DocumentService defines the use cases for handling documents and their files.
type DocumentService interface {
	// List returns every document, newest first.
	List(ctx context.Context) ([]model.Document, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id int64) (*model.Document, error)

	// Create validates the metadata, stores the optional file and inserts the row.
	// If the insert fails the stored blob is removed again.
	Create(ctx context.Context, in model.DocumentInput, file *upload.File) (*model.Document, error)

	// Update applies a coalesce patch to the metadata.
	Update(ctx context.Context, id int64, patch model.DocumentPatch) (*model.Document, error)

	// ReplaceFile stores a new file, points the row at it and then removes the
	// previous blob on a best-effort basis.
	ReplaceFile(ctx context.Context, id int64, file *upload.File) (*model.Document, error)

	// Delete removes the row, then its blob on a best-effort basis.
	Delete(ctx context.Context, id int64) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store  storage.Storage
	repo   repository.DocumentRepository
	policy *upload.Policy
	logger *slog.Logger
	now    func() time.Time
	token  func() string
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, policy *upload.Policy, logger *slog.Logger) DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentService{
		store:  store,
		repo:   repo,
		policy: policy,
		logger: logger,
		now:    time.Now,
		token:  newBlobToken,
	}
}

// newBlobToken returns the first eight hex digits of a random UUID.
func newBlobToken() string {
	return uuid.NewString()[:8]
}

func (s *documentService) List(ctx context.Context) ([]model.Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Storage("list documents", err)
	}
	return docs, nil
}

func (s *documentService) Get(ctx context.Context, id int64) (*model.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.repoError("find document", err)
	}
	return doc, nil
}

func (s *documentService) Create(ctx context.Context, in model.DocumentInput, file *upload.File) (*model.Document, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	if file == nil {
		doc, err := s.repo.Create(ctx, in, nil)
		if err != nil {
			return nil, s.repoError("insert document", err)
		}
		return doc, nil
	}

	key, err := s.storeFile(ctx, file)
	if err != nil {
		return nil, err
	}

	url := storage.PublicPath(key)
	doc, err := s.repo.Create(ctx, in, &url)
	if err != nil {
		// Rollback: the row never referenced this blob.
		s.removeBlob(ctx, key)
		return nil, s.repoError("insert document", err)
	}
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, id int64, patch model.DocumentPatch) (*model.Document, error) {
	if err := validateInput(patch); err != nil {
		return nil, err
	}
	doc, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.repoError("update document", err)
	}
	return doc, nil
}

func (s *documentService) ReplaceFile(ctx context.Context, id int64, file *upload.File) (*model.Document, error) {
	if file == nil || file.Content == nil {
		return nil, ErrFileRequired
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.repoError("find document", err)
	}

	key, err := s.storeFile(ctx, file)
	if err != nil {
		return nil, err
	}

	doc, err := s.repo.SetFile(ctx, id, storage.PublicPath(key))
	if err != nil {
		// The row still points at the old blob; drop the new one.
		s.removeBlob(ctx, key)
		return nil, s.repoError("update document file", err)
	}

	if current.FileURL != nil && *current.FileURL != storage.PublicPath(key) {
		s.removeBlobURL(ctx, *current.FileURL)
	}
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, id int64) error {
	fileURL, err := s.repo.Delete(ctx, id)
	if err != nil {
		return s.repoError("delete document", err)
	}
	if fileURL != nil {
		s.removeBlobURL(ctx, *fileURL)
	}
	return nil
}

// storeFile runs the upload policy and writes the blob, returning its key.
// Nothing is written when the policy rejects the file.
func (s *documentService) storeFile(ctx context.Context, file *upload.File) (string, error) {
	contentType, err := s.policy.Inspect(file)
	if err != nil {
		return "", uploadError(err)
	}

	key := path.Join(documentPrefix, upload.ObjectName(file.Name, contentType, s.now(), s.token()))
	if _, err := s.store.Put(ctx, key, file.Content, storage.PutObjectOptions{
		Size:        file.Size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": file.Name,
		},
	}); err != nil {
		return "", apperror.Storage("store file", err)
	}
	return key, nil
}

// removeBlobURL deletes the blob behind a stored file reference. Failures are
// logged only: the row is authoritative.
func (s *documentService) removeBlobURL(ctx context.Context, fileURL string) {
	key, ok := storage.KeyFromPublicPath(fileURL)
	if !ok {
		s.logger.WarnContext(ctx, "skipping blob cleanup for unrecognised file reference", "url_archivo", fileURL)
		return
	}
	s.removeBlob(ctx, key)
}

func (s *documentService) removeBlob(ctx context.Context, key string) {
	// Cleanup must finish even if the client has gone away.
	ctx = context.WithoutCancel(ctx)
	err := s.store.Delete(ctx, key)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrObjectNotFound):
		s.logger.DebugContext(ctx, "blob already gone", "key", key)
	default:
		s.logger.WarnContext(ctx, "blob cleanup failed", "key", key, "error", err)
	}
}

func (s *documentService) repoError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrDocumentNotFound
	case errors.Is(err, repository.ErrReferenceNotFound):
		return ErrResponsibleNotFound
	}
	return apperror.Storage(op, err)
}
