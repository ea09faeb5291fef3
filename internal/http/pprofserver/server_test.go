package pprofserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teapot() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestAuthOrLocalOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cfg        Config
		remote     string
		user, pass string
		want       int
	}{
		{name: "loopback without auth", remote: "127.0.0.1:12345", want: http.StatusTeapot},
		{name: "ipv6 loopback", remote: "[::1]:12345", want: http.StatusTeapot},
		{name: "remote, no credentials configured", remote: "8.8.8.8:5444", want: http.StatusUnauthorized},
		{name: "remote, wrong password", cfg: Config{User: "u", Pass: "p"}, remote: "8.8.8.8:5444", user: "u", pass: "WRONG", want: http.StatusUnauthorized},
		{name: "remote, no header", cfg: Config{User: "u", Pass: "p"}, remote: "8.8.8.8:5444", want: http.StatusUnauthorized},
		{name: "remote, correct credentials", cfg: Config{User: "u", Pass: "p"}, remote: "8.8.8.8:5444", user: "u", pass: "p", want: http.StatusTeapot},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
			req.RemoteAddr = tc.remote
			if tc.user != "" {
				req.SetBasicAuth(tc.user, tc.pass)
			}
			rr := httptest.NewRecorder()
			authOrLocalOnly(tc.cfg)(teapot()).ServeHTTP(rr, req)

			require.Equal(t, tc.want, rr.Code)
			if tc.want == http.StatusUnauthorized {
				assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestHandler_ServesProfilesToLoopback(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil)
	req.RemoteAddr = "127.0.0.1:1"
	rr := httptest.NewRecorder()
	Handler(Config{}).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}
