package metadata

import (
	"context"
)

// Repository is a string key/value store. Get reports a missing key with
// common.ErrorNotFound.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
