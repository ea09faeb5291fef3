// Package pprofserver serves runtime profiles on a separate listener.
package pprofserver

import (
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config stores pprof server settings.
type Config struct {
	User string
	Pass string
}

// Handler returns the chi profiler mounted under /debug. Loopback callers are
// let through, everyone else needs basic auth credentials.
func Handler(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(authOrLocalOnly(cfg))
	r.Mount("/debug", middleware.Profiler())
	return r
}

func authOrLocalOnly(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		authed := middleware.BasicAuth("pprof", map[string]string{cfg.User: cfg.Pass})(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case isLoopback(r.RemoteAddr):
				next.ServeHTTP(w, r)
			case cfg.User == "" || cfg.Pass == "":
				w.Header().Set("WWW-Authenticate", `Basic realm="pprof"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			default:
				authed.ServeHTTP(w, r)
			}
		})
	}
}

func isLoopback(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	ip := net.ParseIP(strings.TrimSpace(host))
	return ip != nil && ip.IsLoopback()
}
