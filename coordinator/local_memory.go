package coordinator

import (
	"context"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

type localMemoryDirectory struct {
	mu       sync.RWMutex
	endpoint []byte
}

// NewLocalMemory creates local variable based directory.
// Only used for single host setups and tests.
func NewLocalMemory() Directory {
	return &localMemoryDirectory{}
}

func (l *localMemoryDirectory) Resolve(ctx context.Context) (Endpoint, error) {
	if err := ctx.Err(); err != nil {
		return Endpoint{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.endpoint == nil {
		return Endpoint{}, ErrNotFound
	}
	var ep Endpoint
	if err := jsoniter.Unmarshal(l.endpoint, &ep); err != nil {
		return Endpoint{}, err
	}
	return ep, nil
}

func (l *localMemoryDirectory) Announce(ctx context.Context, ep Endpoint) error {
	if err := ep.Validate(); err != nil {
		return err
	}
	data, err := jsoniter.Marshal(ep)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.endpoint = data
	l.mu.Unlock()
	return nil
}

func (l *localMemoryDirectory) Close() error {
	return nil
}
