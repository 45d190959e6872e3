package asset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var extensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/bmp":     ".bmp",
	"image/svg+xml": ".svg",
}

// DiskStore keeps uploads in a directory served under a public prefix.
type DiskStore struct {
	dir    string
	prefix string
}

func NewDiskStore(dir, prefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	return &DiskStore{
		dir:    dir,
		prefix: "/" + strings.Trim(prefix, "/"),
	}, nil
}

func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Prefix() string {
	return s.prefix
}

// Save validates f, checks its content really is an image and writes it
// under a random name. It returns the public file path.
func (s *DiskStore) Save(f File) (string, error) {
	if err := Validate(f); err != nil {
		return "", err
	}

	detected, body, err := Sniff(f.Body)
	if err != nil {
		return "", err
	}
	// svg is text to the sniffer, trust the declared type for it
	if !IsImage(detected) && TypeOf(f) != "image/svg+xml" {
		return "", &UploadError{Name: f.Name, Err: ErrUnsupportedType}
	}

	ext, ok := extensions[detected]
	if !ok {
		ext = strings.ToLower(filepath.Ext(f.Name))
	}
	name := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	n, err := io.Copy(dst, io.LimitReader(body, MaxUploadSize+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxUploadSize {
		err = &UploadError{Name: f.Name, Err: ErrTooLarge}
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		var uerr *UploadError
		if errors.As(err, &uerr) {
			return "", err
		}
		return "", fmt.Errorf("write file: %w", err)
	}

	return path.Join(s.prefix, name), nil
}

// Remove deletes a file saved by Save. Missing files are not an error.
func (s *DiskStore) Remove(filePath string) error {
	name := path.Base(filePath)
	if !strings.HasPrefix(filePath, s.prefix+"/") || name == "." || name == "/" {
		return fmt.Errorf("file %q is not in the store", filePath)
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
