package intake

import (
	"errors"
	"strings"
)

var (
	// ErrRateLimited is returned when a caller has used up its submissions for the window.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrBlockedContent is wrapped by BlockedError.
	ErrBlockedContent = errors.New("submission contains blocked content")
)

// BlockedError reports which moderation categories a submission matched.
type BlockedError struct {
	Labels []string
}

func (e *BlockedError) Error() string {
	return ErrBlockedContent.Error() + ": " + strings.Join(e.Labels, ", ")
}

// Unwrap makes errors.Is(err, ErrBlockedContent) hold.
func (e *BlockedError) Unwrap() error {
	return ErrBlockedContent
}
