package mock

import (
	"context"

	"github.com/hweisong/tenderparse"
)

var _ tenderparse.TokenSource = (*TokenSource)(nil)

// TokenSource is a mock implementation of tenderparse.TokenSource.
type TokenSource struct {
	TokenFn      func(ctx context.Context) (string, error)
	InvalidateFn func()
}

func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	return ts.TokenFn(ctx)
}

func (ts *TokenSource) Invalidate() {
	ts.InvalidateFn()
}
