package api

import (
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrUnauthenticated is returned after the disconnected handler ran for a 401.
var ErrUnauthenticated = errors.New("unauthenticated")

// ProtocolError is any status the client has no recovery for.
type ProtocolError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("response error %d for %s %s: %s", e.StatusCode, e.Method, e.Path, e.Body)
}

// isRetryableError determines if a read should be attempted again.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, ErrUnauthenticated) {
		return false
	}

	var protocolErr *ProtocolError
	if errors.As(err, &protocolErr) {
		return protocolErr.StatusCode >= http.StatusInternalServerError ||
			protocolErr.StatusCode == http.StatusTooManyRequests
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
