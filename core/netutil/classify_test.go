package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "deadline", err: fmt.Errorf("post: %w", context.DeadlineExceeded), want: KindTimeout},
		{name: "canceled", err: context.Canceled, want: KindCanceled},
		{name: "dns", err: &url.Error{Op: "Post", URL: "http://nowhere", Err: &net.DNSError{Err: "no such host", Name: "nowhere"}}, want: KindDNS},
		{name: "dial", err: &url.Error{Op: "Post", URL: "http://127.0.0.1:1", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}}, want: KindDial},
		{name: "net timeout", err: &url.Error{Op: "Post", URL: "http://slow", Err: timeoutErr{}}, want: KindTimeout},
		{name: "other", err: errors.New("boom"), want: KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestHTTPStatusKind(t *testing.T) {
	assert.Equal(t, "http_5xx", HTTPStatusKind(502))
	assert.Equal(t, "http_4xx", HTTPStatusKind(404))
	assert.Equal(t, "", HTTPStatusKind(200))
}
