package testutil

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStubFailure is a generic error injected by tests.
var ErrStubFailure = errors.New("stub failure")

// Denylist is an in-memory ports.TokenDenylist.
type Denylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time

	// RevokeErr, when set, is returned by Revoke.
	RevokeErr error
}

func NewDenylist() *Denylist {
	return &Denylist{revoked: make(map[string]time.Time)}
}

func (d *Denylist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.RevokeErr != nil {
		return d.RevokeErr
	}
	d.revoked[tokenID] = until
	return nil
}

func (d *Denylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[tokenID]
	return ok, nil
}

// Storage is a ports.ObjectStorage returning predictable links.
type Storage struct {
	Err error
}

func (s Storage) PresignedURL(_ context.Context, objectKey, fileName string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return "https://storage.test/" + objectKey + "?name=" + fileName, nil
}
