package source

import (
	"context"
	"errors"
	"net"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatusErrorTransient(t *testing.T) {
	require.True(t, (&StatusError{StatusCode: 429}).Transient())
	require.True(t, (&StatusError{StatusCode: 500}).Transient())
	require.True(t, (&StatusError{StatusCode: 503}).Transient())
	require.False(t, (&StatusError{StatusCode: 404}).Transient())
	require.False(t, (&StatusError{StatusCode: 403}).Transient())
}

func TestIsTransientStatuses(t *testing.T) {
	require.True(t, IsTransient(&StatusError{Endpoint: "api.github.com", StatusCode: 429}))
	require.True(t, IsTransient(&StatusError{Endpoint: "rdap.nic.io", StatusCode: 502}))
	require.False(t, IsTransient(&StatusError{Endpoint: "api.github.com", StatusCode: 401}))
}

func TestIsTransientContextErrors(t *testing.T) {
	require.False(t, IsTransient(context.Canceled))
	require.False(t, IsTransient(context.DeadlineExceeded))
}

func TestIsTransientNetworkErrors(t *testing.T) {
	require.True(t, IsTransient(&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}))
	require.True(t, IsTransient(&net.DNSError{IsTimeout: true}))
	require.False(t, IsTransient(errors.New("malformed response")))
	require.False(t, IsTransient(nil))
}

func TestIsTransientWrappedStatus(t *testing.T) {
	wrapped := errors.Join(errors.New("lookup failed"), &StatusError{StatusCode: 503})
	require.True(t, IsTransient(wrapped))
}

func TestRetryAfterHeaderSeconds(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "30")
	require.Equal(t, 30*time.Second, retryAfterHeader(header))
}

func TestRetryAfterHeaderAbsent(t *testing.T) {
	require.Equal(t, time.Duration(0), retryAfterHeader(http.Header{}))

	header := http.Header{}
	header.Set("Retry-After", "not-a-number")
	require.Equal(t, time.Duration(0), retryAfterHeader(header))
}
