package objectstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/satriahrh/mockview/domain/repositories"
)

// Object is a stored blob with its content type
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryStorage keeps objects in process memory. Used for local development and tests.
type MemoryStorage struct {
	mu      sync.Mutex
	baseURL string
	objects map[string]Object
	uploads int
}

var _ repositories.ObjectStorage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty in-memory store whose public URLs start with baseURL
func NewMemoryStorage(baseURL string) *MemoryStorage {
	if baseURL == "" {
		baseURL = "memory://"
	}
	return &MemoryStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]Object),
	}
}

// Upload implements repositories.ObjectStorage
func (m *MemoryStorage) Upload(ctx context.Context, bucket, path string, data []byte, opts repositories.UploadOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.uploads++
	key := bucket + "/" + path
	if _, ok := m.objects[key]; ok && !opts.Upsert {
		return fmt.Errorf("%s: %w", key, ErrObjectExists)
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[key] = Object{Data: stored, ContentType: opts.ContentType}
	return nil
}

// PublicURL implements repositories.ObjectStorage
func (m *MemoryStorage) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/%s/%s", m.baseURL, bucket, path)
}

// Get returns a stored object
func (m *MemoryStorage) Get(bucket, path string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[bucket+"/"+path]
	return obj, ok
}

// UploadCount reports how many uploads were attempted, including rejected ones
func (m *MemoryStorage) UploadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploads
}
