package cache

import (
	"context"
	"fmt"
	"time"

	"AltCache/internal/objstore"
)

const DefaultListTimeout = 10 * time.Second

// Lister turns a store's listing stream into a single result with a bounded wait.
type Lister struct {
	// Timeout counts from the call to List. Zero means DefaultListTimeout.
	Timeout time.Duration
}

// List collects every object under prefix. The first item carrying an error ends the
// listing and discards what was collected. When the stream neither ends nor fails
// within the timeout, List returns ErrListTimeout. The listing context is cancelled
// on return so the producer stops.
func (l Lister) List(ctx context.Context, store objstore.Store, bucket, prefix string) ([]objstore.Object, error) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultListTimeout
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	op := fmt.Sprintf("list %q", prefix)
	items := store.ListObjects(ctx, bucket, prefix)
	var objects []objstore.Object
	for {
		select {
		case obj, ok := <-items:
			if !ok {
				return objects, nil
			}
			if obj.Err != nil {
				return nil, operational(op, obj.Err)
			}
			objects = append(objects, obj)
		case <-timer.C:
			return nil, operational(op, fmt.Errorf("%w after %s", ErrListTimeout, timeout))
		case <-ctx.Done():
			return nil, operational(op, ctx.Err())
		}
	}
}
