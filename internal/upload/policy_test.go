package upload

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func zipBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newFile(name, ct string, content []byte) *File {
	return &File{
		Name:        name,
		ContentType: ct,
		Size:        int64(len(content)),
		Content:     bytes.NewReader(content),
	}
}

func TestPolicy_Inspect(t *testing.T) {
	policy := DocumentPolicy(1 << 20)
	exe := append([]byte("MZ"), bytes.Repeat([]byte{0x90}, 128)...)

	tests := []struct {
		name    string
		file    *File
		want    string
		wantErr error
	}{
		{name: "pdf declared", file: newFile("a.pdf", "application/pdf", pdfBytes), want: MimePDF},
		{name: "pdf with charset parameter", file: newFile("a.pdf", "application/pdf; charset=binary", pdfBytes), want: MimePDF},
		{name: "pdf octet-stream falls back to sniffing", file: newFile("a.pdf", "application/octet-stream", pdfBytes), want: MimePDF},
		{name: "pdf without declared type", file: newFile("a.pdf", "", pdfBytes), want: MimePDF},
		{name: "xlsx backed by zip container", file: newFile("a.xlsx", MimeXLSX, zipBytes(t)), want: MimeXLSX},
		{name: "bare zip is ambiguous", file: newFile("a.zip", "application/octet-stream", zipBytes(t)), wantErr: ErrFileTypeUnsupported},
		{name: "exe declared as exe", file: newFile("setup.exe", "application/x-msdownload", exe), wantErr: ErrFileTypeUnsupported},
		{name: "exe disguised as pdf", file: newFile("setup.pdf", "application/pdf", exe), wantErr: ErrFileTypeUnsupported},
		{name: "plain text", file: newFile("a.txt", "text/plain", []byte("hello")), wantErr: ErrFileTypeUnsupported},
		{name: "nil file", file: nil, wantErr: ErrNoFile},
		{name: "name too long", file: newFile(strings.Repeat("a", 250)+".pdf", MimePDF, pdfBytes), wantErr: ErrFileNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := policy.Inspect(tt.file)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Content must be rewound for the storage write.
			rest, err := io.ReadAll(tt.file.Content)
			require.NoError(t, err)
			assert.Equal(t, tt.file.Size, int64(len(rest)))
		})
	}
}

func TestPolicy_Inspect_SizeCap(t *testing.T) {
	policy := DocumentPolicy(int64(len(pdfBytes)))

	t.Run("exactly at cap", func(t *testing.T) {
		_, err := policy.Inspect(newFile("a.pdf", MimePDF, pdfBytes))
		assert.NoError(t, err)
	})

	t.Run("declared size over cap", func(t *testing.T) {
		f := newFile("a.pdf", MimePDF, pdfBytes)
		f.Size = policy.MaxBytes + 1
		_, err := policy.Inspect(f)
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("understated size", func(t *testing.T) {
		big := append(append([]byte{}, pdfBytes...), []byte("padding")...)
		f := newFile("a.pdf", MimePDF, big)
		f.Size = 10
		_, err := policy.Inspect(f)
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("understated size within cap is measured", func(t *testing.T) {
		f := newFile("a.pdf", MimePDF, pdfBytes)
		f.Size = 3
		_, err := DocumentPolicy(1 << 20).Inspect(f)
		require.NoError(t, err)
		assert.Equal(t, int64(len(pdfBytes)), f.Size)
	})
}

func TestObjectName(t *testing.T) {
	now := time.UnixMilli(1714557600123)

	tests := []struct {
		name     string
		original string
		ct       string
		want     string
	}{
		{name: "simple", original: "report.pdf", ct: MimePDF, want: "1714557600123_a1b2c3d4_report.pdf"},
		{name: "spaces and accents", original: "Informe de Auditoría 2024.xlsx", ct: MimeXLSX, want: "1714557600123_a1b2c3d4_Informe_de_Auditor_a_2024.xlsx"},
		{name: "path components are dropped", original: "../../etc/passwd.pdf", ct: MimePDF, want: "1714557600123_a1b2c3d4_passwd.pdf"},
		{name: "windows path", original: `C:\Users\me\plan.xls`, ct: MimeXLS, want: "1714557600123_a1b2c3d4_plan.xls"},
		{name: "missing extension uses content type", original: "scan", ct: MimePDF, want: "1714557600123_a1b2c3d4_scan.pdf"},
		{name: "uppercase extension", original: "DATA.PDF", ct: MimePDF, want: "1714557600123_a1b2c3d4_DATA.pdf"},
		{name: "nothing usable", original: "%%%", ct: "", want: "1714557600123_a1b2c3d4_file.bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectName(tt.original, tt.ct, now, "a1b2c3d4"))
		})
	}
}

func TestObjectName_TokenSeparatesSameMillisecond(t *testing.T) {
	now := time.UnixMilli(1714557600123)

	a := ObjectName("manual.pdf", MimePDF, now, "0f3c9a21")
	b := ObjectName("manual.pdf", MimePDF, now, "7d21e4b0")

	assert.NotEqual(t, a, b)
	assert.Equal(t, "1714557600123_0f3c9a21_manual.pdf", a)
}
