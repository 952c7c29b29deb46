package upload

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNoFile              = errors.New("no file provided")
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileNameTooLong     = errors.New("file name is too long")
	ErrFileTypeUnsupported = errors.New("unsupported file type")
)

const (
	MimePDF  = "application/pdf"
	MimeXLS  = "application/vnd.ms-excel"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	maxFileNameSize = 245
)

// File is an uploaded file as received from the client.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.ReadSeeker
}

// Policy decides which uploads are accepted. Each allowed declared type maps
// to the sniffed types that may back it: office formats are containers, and
// short or unusual files are sometimes only recognised by their container.
type Policy struct {
	MaxBytes int64
	allowed  map[string][]string
}

// DocumentPolicy accepts PDF, XLS and XLSX files up to maxBytes.
func DocumentPolicy(maxBytes int64) *Policy {
	return &Policy{
		MaxBytes: maxBytes,
		allowed: map[string][]string{
			MimePDF:  {MimePDF},
			MimeXLS:  {MimeXLS, "application/x-ole-storage"},
			MimeXLSX: {MimeXLSX, "application/zip"},
		},
	}
}

// Inspect validates f and returns the content type to store it under.
// On success f.Size holds the measured length and f.Content is rewound.
func (p *Policy) Inspect(f *File) (string, error) {
	if f == nil || f.Content == nil {
		return "", ErrNoFile
	}
	if len(f.Name) > maxFileNameSize {
		return "", ErrFileNameTooLong
	}
	if f.Size > p.MaxBytes {
		return "", ErrFileTooLarge
	}

	declared := normalizeType(f.ContentType)

	sniffed, err := mimetype.DetectReader(f.Content)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}

	if declared == "" {
		declared = p.familyOf(sniffed)
		if declared == "" {
			return "", fmt.Errorf("%w: %s", ErrFileTypeUnsupported, sniffed.String())
		}
	}

	accepted, ok := p.allowed[declared]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrFileTypeUnsupported, declared)
	}
	if !matchesAny(sniffed, accepted) {
		return "", fmt.Errorf("%w: declared %s, content is %s", ErrFileTypeUnsupported, declared, sniffed.String())
	}

	// The declared size is client supplied; make sure nothing lies past the cap.
	if _, err := f.Content.Seek(p.MaxBytes, io.SeekStart); err != nil {
		return "", fmt.Errorf("seek upload: %w", err)
	}
	buf := make([]byte, 1)
	n, err := f.Content.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if n > 0 {
		return "", ErrFileTooLarge
	}

	end, err := f.Content.Seek(0, io.SeekEnd)
	if err != nil {
		return "", fmt.Errorf("measure upload: %w", err)
	}
	f.Size = end

	if _, err := f.Content.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	return declared, nil
}

// familyOf maps a sniffed type to the allowed declared type it belongs to.
// Bare containers (zip, ole) are ambiguous and do not qualify.
func (p *Policy) familyOf(sniffed *mimetype.MIME) string {
	for declared := range p.allowed {
		if sniffed.Is(declared) {
			return declared
		}
	}
	return ""
}

func matchesAny(sniffed *mimetype.MIME, accepted []string) bool {
	for m := sniffed; m != nil; m = m.Parent() {
		for _, a := range accepted {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}

func normalizeType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "application/octet-stream" {
		return ""
	}
	return ct
}

var unsafeChars = regexp.MustCompile(`[^\w\-]+`)
var extChars = regexp.MustCompile(`^\.[A-Za-z0-9]{1,10}$`)

// ObjectName builds a blob name of the form
// <unix-millis>_<token>_<sanitized-base><ext>. The token keeps two uploads of
// the same file in the same millisecond apart.
func ObjectName(original, contentType string, now time.Time, token string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	ext := filepath.Ext(base)
	base = strings.TrimSuffix(base, ext)
	if !extChars.MatchString(ext) {
		ext = ""
		if m := mimetype.Lookup(contentType); m != nil {
			ext = m.Extension()
		}
	}
	if ext == "" {
		ext = ".bin"
	}
	base = strings.Trim(unsafeChars.ReplaceAllString(base, "_"), "_")
	if base == "" {
		base = "file"
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "_" + token + "_" + base + strings.ToLower(ext)
}
