// Package asset validates and stores uploaded images.
package asset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxUploadSize is the largest accepted upload, 20MB.
const MaxUploadSize = 20 << 20

var (
	ErrUnsupportedType = errors.New("only image files can be uploaded")
	ErrTooLarge        = fmt.Errorf("file is larger than %dMB", MaxUploadSize>>20)
	ErrEmpty           = errors.New("file is empty")
)

// UploadError is an upload rejected before it reached storage.
type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %q rejected: %v", e.Name, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// File is an image picked for upload.
type File struct {
	Name        string
	Title       string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Validate checks the declared type and size only; it never reads Body.
func Validate(f File) error {
	if !IsImage(TypeOf(f)) {
		return &UploadError{Name: f.Name, Err: ErrUnsupportedType}
	}
	if f.Size > MaxUploadSize {
		return &UploadError{Name: f.Name, Err: ErrTooLarge}
	}
	if f.Size == 0 {
		return &UploadError{Name: f.Name, Err: ErrEmpty}
	}
	return nil
}

// TypeOf returns the declared media type, or the one implied by the file
// extension when none was declared.
func TypeOf(f File) string {
	ct := f.ContentType
	if ct == "" {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name)))
	}
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return ct
}

func IsImage(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}

// Sniff detects the media type from the leading bytes of r. The returned
// reader replays those bytes.
func Sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	return http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), r), nil
}

// URL resolves a stored file path against the public base URL. Absolute
// URLs are returned unchanged.
func URL(base, filePath string) string {
	if filePath == "" || strings.HasPrefix(filePath, "http://") || strings.HasPrefix(filePath, "https://") {
		return filePath
	}
	if base == "" {
		return filePath
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(filePath, "/")
}
