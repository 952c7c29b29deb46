// Package storage keeps document blobs. Backends address blobs by a
// slash-separated key such as "documentos/1714557600123_9f2c41d0_plan.pdf".
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidKey     = errors.New("invalid object key")
)

// PublicPrefix is the URL path under which blobs are served; document rows
// store PublicPrefix + key.
const PublicPrefix = "/uploads/"

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1 if unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the blob backend used by the document lifecycle.
type Storage interface {
	// Put stores an object under key, replacing any existing object.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get streams an object. Returns ErrObjectNotFound if it is absent.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object. Returns ErrObjectNotFound if it is absent.
	Delete(ctx context.Context, key string) error
}

// CleanKey validates a client-influenced key and returns its canonical form.
// Absolute keys, backslashes and any ".." segment are rejected.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.ContainsRune(key, '\\') || strings.ContainsRune(key, 0) {
		return "", ErrInvalidKey
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", ErrInvalidKey
		}
	}
	clean := path.Clean(key)
	if clean == "." {
		return "", ErrInvalidKey
	}
	return clean, nil
}

// PublicPath returns the relative URL a client uses to fetch key.
func PublicPath(key string) string {
	return PublicPrefix + key
}

// KeyFromPublicPath reverses PublicPath. Rows written before the prefix was
// normalised may lack the leading slash.
func KeyFromPublicPath(p string) (string, bool) {
	p = strings.TrimPrefix(p, "/")
	rest, ok := strings.CutPrefix(p, strings.TrimPrefix(PublicPrefix, "/"))
	if !ok {
		return "", false
	}
	key, err := CleanKey(rest)
	if err != nil {
		return "", false
	}
	return key, true
}
