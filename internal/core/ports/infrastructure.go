package ports

import (
	"context"
	"time"
)

// TokenDenylist records revoked token ids until their natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// ObjectStorage hands out time-limited download links for stored files.
type ObjectStorage interface {
	PresignedURL(ctx context.Context, objectKey, fileName string) (string, error)
}
