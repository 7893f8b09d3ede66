package gateways

import (
	"errors"
	"fmt"
	"net/http"

	client "github.com/certiblock/verifier-node/pkg/http"
)

var (
	// ErrQuotaExceeded is returned when the capability backend rejects the
	// call because the quota ran out. Callers degrade instead of failing.
	ErrQuotaExceeded = errors.New("capability quota exceeded")
	// ErrTransient marks a failure that may succeed on retry
	ErrTransient = errors.New("transient capability error")
)

// mapCapabilityErr translates http level failures into the gateway sentinel
// errors the services act on.
func mapCapabilityErr(op string, err error) error {
	switch status := client.StatusOf(err); {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", op, ErrQuotaExceeded)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%s: %w", op, ErrTransient)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
