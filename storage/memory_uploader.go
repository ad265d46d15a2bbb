package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
)

// MemoryUploader keeps uploaded objects in memory. It backs local runs
// without object storage credentials and the export tests.
type MemoryUploader struct {
	mu      sync.Mutex
	base    *url.URL
	objects map[string][]byte
}

func NewMemoryUploader(publicBaseURL string) (*MemoryUploader, error) {
	base, err := url.Parse(publicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid public base URL %q: %w", publicBaseURL, err)
	}
	return &MemoryUploader{base: base, objects: make(map[string][]byte)}, nil
}

func (u *MemoryUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u.mu.Lock()
	u.objects[key] = buf.Bytes()
	u.mu.Unlock()

	return &UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *MemoryUploader) GetPublicURL(key string) string {
	return publicURL(u.base, key)
}

// Object returns a stored object by key.
func (u *MemoryUploader) Object(key string) ([]byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	b, ok := u.objects[key]
	return b, ok
}
