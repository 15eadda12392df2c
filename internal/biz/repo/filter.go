package repo

import "context"

// FilterRepo is the optional pre-forward spam filter interface
// A nil FilterRepo means filtering is disabled
type FilterRepo interface {
	// IsSpam classifies one channel post before fan-out
	IsSpam(ctx context.Context, text string) (bool, error)
}
