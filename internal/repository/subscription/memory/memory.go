// Package memory keeps the serialized subscription list in process memory.
package memory

import (
	"context"
	"sync"

	"subs_dashboard/internal/entity"
	"subs_dashboard/internal/repository/subscription"
)

// Backend stores the encoded list the same way the key-value backends do, so a
// round trip through it exercises the full codec.
type Backend struct {
	mu   sync.Mutex
	data []byte
}

func New() *Backend {
	return &Backend{}
}

// NewWithRaw starts from already encoded data, used to simulate stored state
func NewWithRaw(raw []byte) *Backend {
	return &Backend{data: append([]byte(nil), raw...)}
}

func (b *Backend) Load(_ context.Context) ([]entity.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, subscription.ErrNoData
	}
	return subscription.Unmarshal(b.data)
}

func (b *Backend) Save(_ context.Context, subs []entity.Subscription) error {
	data, err := subscription.Marshal(subs)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = data
	return nil
}

// Raw returns a copy of the encoded list
func (b *Backend) Raw() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.data...)
}
