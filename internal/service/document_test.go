package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"qualityweb/internal/apperror"
	"qualityweb/internal/model"
	"qualityweb/internal/repository"
	repoMocks "qualityweb/internal/repository/mocks"
	"qualityweb/internal/storage"
	storeMocks "qualityweb/internal/storage/mocks"
	"qualityweb/internal/upload"
)

var (
	fixedNow = time.UnixMilli(1714557600123)
	pdfBody  = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
)

const newKey = "documentos/1714557600123_a1b2c3d4_manual.pdf"

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func pdfFile() *upload.File {
	return &upload.File{
		Name:        "manual.pdf",
		ContentType: upload.MimePDF,
		Size:        int64(len(pdfBody)),
		Content:     bytes.NewReader(pdfBody),
	}
}

func newTestDocumentService(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) *documentService {
	svc := NewDocumentService(mStore, mRepo, upload.DocumentPolicy(1<<20), nil).(*documentService)
	svc.now = func() time.Time { return fixedNow }
	svc.token = func() string { return "a1b2c3d4" }
	return svc
}

func pdfPut() any {
	return mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
		return opt.ContentType == upload.MimePDF && opt.Size == int64(len(pdfBody))
	})
}

func urlOf(key string) any {
	return mock.MatchedBy(func(u *string) bool {
		return u != nil && *u == storage.PublicPath(key)
	})
}

func TestDocumentService_Create(t *testing.T) {
	ctx := context.Background()
	in := model.DocumentInput{Name: "Manual de calidad"}

	tests := []struct {
		name       string
		in         model.DocumentInput
		file       func() *upload.File
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
		wantKind   apperror.Kind
	}{
		{
			name: "metadata only",
			in:   in,
			file: func() *upload.File { return nil },
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("Create", ctx, in, (*string)(nil)).Return(&model.Document{ID: 1, Name: in.Name}, nil)
			},
		},
		{
			name: "with file",
			in:   in,
			file: pdfFile,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mStore.On("Put", ctx, newKey, mock.Anything, pdfPut()).
					Return(storage.ObjectInfo{Key: newKey, Size: int64(len(pdfBody))}, nil)
				mRepo.On("Create", ctx, in, urlOf(newKey)).
					Return(&model.Document{ID: 1, Name: in.Name, FileURL: strPtr(storage.PublicPath(newKey))}, nil)
			},
		},
		{
			name:       "missing name",
			in:         model.DocumentInput{},
			file:       pdfFile,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {},
			wantKind:   apperror.KindValidation,
		},
		{
			name:       "malformed date",
			in:         model.DocumentInput{Name: "x", Date: strPtr("01/05/2024")},
			file:       func() *upload.File { return nil },
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {},
			wantKind:   apperror.KindValidation,
		},
		{
			name: "unsupported file type is rejected before any write",
			in:   in,
			file: func() *upload.File {
				return &upload.File{Name: "notes.txt", ContentType: "text/plain", Size: 5, Content: strings.NewReader("hello")}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrFileType,
		},
		{
			name: "storage error",
			in:   in,
			file: pdfFile,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mStore.On("Put", ctx, newKey, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("disk full"))
			},
			wantKind: apperror.KindStorage,
		},
		{
			name: "insert error rolls back the blob",
			in:   in,
			file: pdfFile,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mStore.On("Put", ctx, newKey, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: newKey}, nil)
				mRepo.On("Create", ctx, in, urlOf(newKey)).Return(nil, errors.New("db down"))
				mStore.On("Delete", mock.Anything, newKey).Return(nil).Once()
			},
			wantKind: apperror.KindStorage,
		},
		{
			name: "rollback failure still reports the insert error",
			in:   in,
			file: pdfFile,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mStore.On("Put", ctx, newKey, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: newKey}, nil)
				mRepo.On("Create", ctx, in, urlOf(newKey)).Return(nil, errors.New("db down"))
				mStore.On("Delete", mock.Anything, newKey).Return(errors.New("permission denied"))
			},
			wantKind: apperror.KindStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			tt.setupMocks(mStore, mRepo)
			svc := newTestDocumentService(mStore, mRepo)

			doc, err := svc.Create(ctx, tt.in, tt.file())

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
			case tt.wantKind != apperror.KindUnknown:
				assert.Equal(t, tt.wantKind, apperror.KindOf(err))
				assert.Nil(t, doc)
			default:
				require.NoError(t, err)
				assert.NotNil(t, doc)
			}

			if tt.wantErr != nil || tt.wantKind == apperror.KindValidation {
				mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_ReplaceFile(t *testing.T) {
	ctx := context.Background()
	oldURL := "/uploads/documentos/1700000000000_old.pdf"
	existing := &model.Document{ID: 5, Name: "Manual", FileURL: &oldURL}

	t.Run("stores new blob, updates row, then drops old blob", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newTestDocumentService(mStore, mRepo)

		mRepo.On("FindByID", ctx, int64(5)).Return(existing, nil)
		mStore.On("Put", ctx, newKey, mock.Anything, pdfPut()).Return(storage.ObjectInfo{Key: newKey}, nil)
		mRepo.On("SetFile", ctx, int64(5), storage.PublicPath(newKey)).
			Return(&model.Document{ID: 5, FileURL: strPtr(storage.PublicPath(newKey))}, nil)
		mStore.On("Delete", mock.Anything, "documentos/1700000000000_old.pdf").Return(nil)

		doc, err := svc.ReplaceFile(ctx, 5, pdfFile())

		require.NoError(t, err)
		assert.Equal(t, storage.PublicPath(newKey), *doc.FileURL)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("old blob cleanup failure is not surfaced", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newTestDocumentService(mStore, mRepo)

		mRepo.On("FindByID", ctx, int64(5)).Return(existing, nil)
		mStore.On("Put", ctx, newKey, mock.Anything, mock.Anything).Return(storage.ObjectInfo{Key: newKey}, nil)
		mRepo.On("SetFile", ctx, int64(5), storage.PublicPath(newKey)).Return(&model.Document{ID: 5}, nil)
		mStore.On("Delete", mock.Anything, "documentos/1700000000000_old.pdf").Return(errors.New("io error"))

		_, err := svc.ReplaceFile(ctx, 5, pdfFile())
		assert.NoError(t, err)
	})

	t.Run("row update failure keeps old blob and drops new one", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newTestDocumentService(mStore, mRepo)

		mRepo.On("FindByID", ctx, int64(5)).Return(existing, nil)
		mStore.On("Put", ctx, newKey, mock.Anything, mock.Anything).Return(storage.ObjectInfo{Key: newKey}, nil)
		mRepo.On("SetFile", ctx, int64(5), storage.PublicPath(newKey)).Return(nil, errors.New("db down"))
		mStore.On("Delete", mock.Anything, newKey).Return(nil)

		_, err := svc.ReplaceFile(ctx, 5, pdfFile())

		assert.Equal(t, apperror.KindStorage, apperror.KindOf(err))
		mStore.AssertNotCalled(t, "Delete", mock.Anything, "documentos/1700000000000_old.pdf")
		mStore.AssertExpectations(t)
	})

	t.Run("missing document writes nothing", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newTestDocumentService(mStore, mRepo)

		mRepo.On("FindByID", ctx, int64(9)).Return(nil, repository.ErrNotFound)

		_, err := svc.ReplaceFile(ctx, 9, pdfFile())

		assert.ErrorIs(t, err, ErrDocumentNotFound)
		mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing file", func(t *testing.T) {
		svc := newTestDocumentService(new(storeMocks.MockStorage), new(repoMocks.MockDocumentRepository))
		_, err := svc.ReplaceFile(ctx, 5, nil)
		assert.ErrorIs(t, err, ErrFileRequired)
	})

	t.Run("oversized file", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newTestDocumentService(mStore, mRepo)
		svc.policy = upload.DocumentPolicy(8)

		mRepo.On("FindByID", ctx, int64(5)).Return(existing, nil)

		_, err := svc.ReplaceFile(ctx, 5, pdfFile())

		assert.ErrorIs(t, err, ErrFileTooLarge)
		mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name: "removes row then blob",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("Delete", ctx, int64(1)).Return(strPtr("/uploads/documentos/1_a.pdf"), nil)
				mStore.On("Delete", mock.Anything, "documentos/1_a.pdf").Return(nil)
			},
		},
		{
			name: "blob delete failure is only logged",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("Delete", ctx, int64(1)).Return(strPtr("/uploads/documentos/1_a.pdf"), nil)
				mStore.On("Delete", mock.Anything, "documentos/1_a.pdf").Return(errors.New("io error"))
			},
		},
		{
			name: "blob already gone",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("Delete", ctx, int64(1)).Return(strPtr("/uploads/documentos/1_a.pdf"), nil)
				mStore.On("Delete", mock.Anything, "documentos/1_a.pdf").Return(storage.ErrObjectNotFound)
			},
		},
		{
			name: "no file attached",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("Delete", ctx, int64(1)).Return(nil, nil)
			},
		},
		{
			name: "unrecognised reference is skipped",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("Delete", ctx, int64(1)).Return(strPtr("https://elsewhere/x.pdf"), nil)
			},
		},
		{
			name: "not found",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("Delete", ctx, int64(1)).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrDocumentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			tt.setupMocks(mStore, mRepo)
			svc := newTestDocumentService(mStore, mRepo)

			err := svc.Delete(ctx, 1)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_GetAndUpdate(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockDocumentRepository)
	svc := newTestDocumentService(mStore, mRepo)

	mRepo.On("FindByID", ctx, int64(1)).Return(&model.Document{ID: 1}, nil)
	mRepo.On("FindByID", ctx, int64(2)).Return(nil, repository.ErrNotFound)
	mRepo.On("FindByID", ctx, int64(3)).Return(nil, errors.New("conn refused"))

	doc, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.ID)

	_, err = svc.Get(ctx, 2)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	_, err = svc.Get(ctx, 3)
	assert.Equal(t, apperror.KindStorage, apperror.KindOf(err))

	patch := model.DocumentPatch{Status: strPtr("Vigente")}
	mRepo.On("Update", ctx, int64(1), patch).Return(&model.Document{ID: 1, Status: "Vigente"}, nil)
	mRepo.On("Update", ctx, int64(2), patch).Return(nil, repository.ErrNotFound)

	doc, err = svc.Update(ctx, 1, patch)
	require.NoError(t, err)
	assert.Equal(t, "Vigente", doc.Status)

	_, err = svc.Update(ctx, 2, patch)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	_, err = svc.Update(ctx, 1, model.DocumentPatch{Name: strPtr("")})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	mRepo.On("List", ctx).Return([]model.Document{{ID: 2}, {ID: 1}}, nil).Once()
	docs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentService_SameNameUploadsKeepSeparateBlobs(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	mRepo := new(repoMocks.MockDocumentRepository)
	svc := NewDocumentService(store, mRepo, upload.DocumentPolicy(1<<20), nil).(*documentService)
	svc.now = func() time.Time { return fixedNow }

	var urls []string
	mRepo.On("Create", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { urls = append(urls, *args.Get(2).(*string)) }).
		Return(&model.Document{}, nil).Twice()

	second := append(append([]byte{}, pdfBody...), "% segunda copia\n"...)

	_, err = svc.Create(ctx, model.DocumentInput{Name: "Manual A"}, pdfFile())
	require.NoError(t, err)
	_, err = svc.Create(ctx, model.DocumentInput{Name: "Manual B"}, &upload.File{
		Name:        "manual.pdf",
		ContentType: upload.MimePDF,
		Size:        int64(len(second)),
		Content:     bytes.NewReader(second),
	})
	require.NoError(t, err)

	require.Len(t, urls, 2)
	require.NotEqual(t, urls[0], urls[1])
	keyA, ok := storage.KeyFromPublicPath(urls[0])
	require.True(t, ok)
	keyB, ok := storage.KeyFromPublicPath(urls[1])
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(keyA, "documentos/1714557600123_"))

	mRepo.On("Delete", ctx, int64(1)).Return(&urls[0], nil)
	require.NoError(t, svc.Delete(ctx, 1))

	_, _, err = store.Get(ctx, keyA)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)

	rc, info, err := store.Get(ctx, keyB)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, int64(len(second)), info.Size)
}

func TestDocumentService_UnknownResponsible(t *testing.T) {
	ctx := context.Background()
	in := model.DocumentInput{Name: "Manual", ResponsibleID: int64Ptr(99)}
	patch := model.DocumentPatch{ResponsibleID: int64Ptr(99)}
	refErr := fmt.Errorf("%w: documentos_id_responsable_fkey", repository.ErrReferenceNotFound)

	t.Run("create without file", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newTestDocumentService(mStore, mRepo)
		mRepo.On("Create", ctx, in, (*string)(nil)).Return(nil, refErr)

		_, err := svc.Create(ctx, in, nil)
		assertNotFound(t, err, "RESPONSIBLE_NOT_FOUND")
	})

	t.Run("create with file drops the stored blob", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newTestDocumentService(mStore, mRepo)
		mStore.On("Put", ctx, newKey, mock.Anything, mock.Anything).Return(storage.ObjectInfo{Key: newKey}, nil)
		mRepo.On("Create", ctx, in, urlOf(newKey)).Return(nil, refErr)
		mStore.On("Delete", mock.Anything, newKey).Return(nil).Once()

		_, err := svc.Create(ctx, in, pdfFile())
		assertNotFound(t, err, "RESPONSIBLE_NOT_FOUND")
		mStore.AssertExpectations(t)
	})

	t.Run("update", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newTestDocumentService(new(storeMocks.MockStorage), mRepo)
		mRepo.On("Update", ctx, int64(1), patch).Return(nil, refErr)

		_, err := svc.Update(ctx, 1, patch)
		assert.ErrorIs(t, err, ErrResponsibleNotFound)
	})
}
