package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// BlobHandle identifies an uploaded object.
type BlobHandle struct {
	Key string
}

// BlobStore is the narrow surface of the remote object storage:
// upload-by-path and retrieval of a stable download reference.
type BlobStore interface {
	Upload(ctx context.Context, key string, content io.Reader) (BlobHandle, error)
	DownloadURL(handle BlobHandle) string
	Open(key string) (io.ReadCloser, error)
}

// ErrInvalidKey rejects traversal and absolute keys.
var ErrInvalidKey = errors.New("invalid blob key")

type diskBlobStore struct {
	root    string
	baseURL string
}

// NewDiskBlobStore stores blobs under root and serves download references
// below baseURL at /files/<key>.
func NewDiskBlobStore(root, baseURL string) BlobStore {
	return &diskBlobStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *diskBlobStore) Upload(ctx context.Context, key string, content io.Reader) (BlobHandle, error) {
	if err := validateKey(key); err != nil {
		return BlobHandle{}, err
	}
	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return BlobHandle{}, fmt.Errorf("create blob dir: %w", err)
	}
	file, err := os.Create(target)
	if err != nil {
		return BlobHandle{}, fmt.Errorf("create blob: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return BlobHandle{}, fmt.Errorf("write blob: %w", err)
	}
	return BlobHandle{Key: key}, nil
}

func (s *diskBlobStore) DownloadURL(handle BlobHandle) string {
	segments := strings.Split(handle.Key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return s.baseURL + "/files/" + strings.Join(segments, "/")
}

func (s *diskBlobStore) Open(key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(s.root, filepath.FromSlash(key)))
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean != key || clean == ".." || strings.HasPrefix(clean, "../") {
		return ErrInvalidKey
	}
	return nil
}
