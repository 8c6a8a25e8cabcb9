package upload

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	apperrors "aesthetx/internal/errors"

	"github.com/google/uuid"
)

const PublicPrefix = "/uploads/"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

type Service interface {
	// Store saves an image and returns the URL it is served at.
	Store(ctx context.Context, filename string, size int64, r io.Reader) (string, error)
}

type service struct {
	dir      string
	maxBytes int64
}

func NewService(dir string, maxBytes int64) Service {
	return &service{dir: dir, maxBytes: maxBytes}
}

func (s *service) Store(ctx context.Context, filename string, size int64, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", apperrors.ErrInvalidUpload.WithMessage("Only jpg, jpeg, png, webp and gif images are allowed")
	}
	if size > s.maxBytes {
		return "", apperrors.ErrInvalidUpload.WithMessage(fmt.Sprintf("File is larger than %d MB", s.maxBytes>>20))
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	br := bufio.NewReaderSize(r, 512)
	head, _ := br.Peek(512)
	if !strings.HasPrefix(http.DetectContentType(head), "image/") {
		return "", apperrors.ErrInvalidUpload.WithMessage("File is not an image")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	written, err := io.Copy(f, io.LimitReader(br, s.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > s.maxBytes {
		err = apperrors.ErrInvalidUpload.WithMessage(fmt.Sprintf("File is larger than %d MB", s.maxBytes>>20))
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			log.Printf("Failed to remove partial upload %s: %v", path, rmErr)
		}
		return "", err
	}

	log.Printf("stored upload %s (%d bytes)", name, written)
	return PublicPrefix + name, nil
}
