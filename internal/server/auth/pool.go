package auth

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// PooledHasher bounds how many hash computations run at once. Hashing is
// CPU-bound; callers beyond the limit wait for a slot or for ctx to end.
type PooledHasher struct {
	hasher PasswordHasher
	slots  *semaphore.Weighted
}

// NewPooledHasher wraps h with a limit of size concurrent calls. size <= 0
// means runtime.NumCPU().
func NewPooledHasher(h PasswordHasher, size int) *PooledHasher {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &PooledHasher{hasher: h, slots: semaphore.NewWeighted(int64(size))}
}

func (p *PooledHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := p.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.slots.Release(1)

	return p.hasher.Hash(password)
}

func (p *PooledHasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	if err := p.slots.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer p.slots.Release(1)

	return p.hasher.Verify(password, hash)
}

func (p *PooledHasher) NeedsRehash(hash string) bool {
	return p.hasher.NeedsRehash(hash)
}
