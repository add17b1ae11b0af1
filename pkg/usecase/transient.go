package usecase

import (
	"context"
	"errors"
	"net"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/draftmill/inkbase/pkg/service/websearch"
)

// isTransientError reports whether an external call failure is worth
// retrying. Rate limits, service outages, and timeouts qualify; invalid
// arguments and other permanent failures abort the retry loop immediately.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, websearch.ErrUnavailable) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded, codes.Aborted:
		return true
	}
	return false
}
