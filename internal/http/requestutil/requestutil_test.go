package requestutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeRequestID(t *testing.T) {
	assert.Equal(t, "valid-123", SanitizeRequestID("valid-123"))
	assert.Equal(t, "trim_me", SanitizeRequestID("  trim_me "))

	for _, bad := range []string{"", "bad id", "semi;colon", string(make([]byte, 65))} {
		got := SanitizeRequestID(bad)
		_, err := uuid.Parse(got)
		assert.NoError(t, err, "input %q should be replaced by a uuid, got %q", bad, got)
	}
}

func TestNewRequestIDIsUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		id := NewRequestID()
		assert.True(t, requestIDPattern.MatchString(id), "generated id %q must pass validation", id)
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "", ClientIP(nil))

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "first forwarded hop", headers: map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, remote: "9.9.9.9:1234", want: "1.2.3.4"},
		{name: "real ip header", headers: map[string]string{"X-Real-IP": " 4.4.4.4 "}, remote: "9.9.9.9:1234", want: "4.4.4.4"},
		{name: "empty forwarded falls through", headers: map[string]string{"X-Forwarded-For": " , 5.6.7.8"}, remote: "9.9.9.9:1234", want: "9.9.9.9"},
		{name: "remote host without port", remote: "[::1]:8000", want: "::1"},
		{name: "remote addr without port", remote: "unix-socket", want: "unix-socket"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/games", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, ClientIP(req))
		})
	}
}
