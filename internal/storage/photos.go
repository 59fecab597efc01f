// Package storage stores opaque photo attachments on the filesystem.
// Content is never interpreted; callers get back a reference path.
package storage

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxPhotoSize = 5 << 20 // 5MB per attachment

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// PhotoStore saves medication packaging photos under a configured root.
type PhotoStore struct {
	root string
}

func NewPhotoStore(root string) (*PhotoStore, error) {
	if err := os.MkdirAll(filepath.Join(root, "medications"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &PhotoStore{root: root}, nil
}

// Save writes the uploaded file to disk and returns its reference path.
func (s *PhotoStore) Save(file *multipart.FileHeader) (string, error) {
	if file.Size > maxPhotoSize {
		return "", fmt.Errorf("file exceeds %d bytes", maxPhotoSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("file type %s not allowed", ext)
	}

	name := uuid.New().String() + ext
	dst := filepath.Join(s.root, "medications", name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := out.ReadFrom(src); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filepath.ToSlash(filepath.Join("uploads", "medications", name)), nil
}

// Remove deletes a previously saved photo by its reference path.
func (s *PhotoStore) Remove(ref string) error {
	name := filepath.Base(filepath.FromSlash(ref))
	return os.Remove(filepath.Join(s.root, "medications", name))
}
