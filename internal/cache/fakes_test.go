package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"AltCache/internal/objstore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore keeps objects in memory and lists them in insertion order.
type fakeStore struct {
	mu        sync.Mutex
	objects   []objstore.Object
	data      map[string][]byte
	meta      map[string]map[string]string
	listErr   map[string]error
	hang      bool
	getErr    error
	putErr    error
	listCalls []string
	released  chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data:     make(map[string][]byte),
		meta:     make(map[string]map[string]string),
		listErr:  make(map[string]error),
		released: make(chan struct{}, 16),
	}
}

func (s *fakeStore) add(name string, modified time.Time, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, objstore.Object{Name: name, LastModified: modified, Size: int64(len(body))})
	s.data[name] = []byte(body)
}

func (s *fakeStore) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.listCalls...)
}

func (s *fakeStore) ListObjects(ctx context.Context, bucket, prefix string) <-chan objstore.Object {
	s.mu.Lock()
	s.listCalls = append(s.listCalls, prefix)
	var matched []objstore.Object
	for _, obj := range s.objects {
		if strings.HasPrefix(obj.Name, prefix) {
			matched = append(matched, obj)
		}
	}
	listErr := s.listErr[prefix]
	hang := s.hang
	s.mu.Unlock()

	ch := make(chan objstore.Object)
	if hang {
		// Never closes; only reports that the listing context was cancelled.
		go func() {
			<-ctx.Done()
			s.released <- struct{}{}
		}()
		return ch
	}
	go func() {
		defer close(ch)
		for _, obj := range matched {
			select {
			case ch <- obj:
			case <-ctx.Done():
				return
			}
		}
		if listErr != nil {
			select {
			case ch <- objstore.Object{Err: listErr}:
			case <-ctx.Done():
			}
		}
	}()
	return ch
}

func (s *fakeStore) GetObject(ctx context.Context, bucket, name, destPath string) error {
	if s.getErr != nil {
		return s.getErr
	}
	s.mu.Lock()
	body, ok := s.data[name]
	s.mu.Unlock()
	if !ok {
		return errors.New("NoSuchKey")
	}
	return os.WriteFile(destPath, body, 0o600)
}

func (s *fakeStore) PutObject(ctx context.Context, bucket, name, srcPath string, meta map[string]string) error {
	if s.putErr != nil {
		return s.putErr
	}
	body, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, objstore.Object{Name: name, LastModified: time.Now(), Size: int64(len(body))})
	s.data[name] = body
	s.meta[name] = meta
	return nil
}

func (s *fakeStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return true, nil
}
