package filters

import (
	"context"
	"net/http"
	"time"

	"vapi.io/vapi/lib/logger"
)

// RequestInfo holds request attributes collected before dispatching
type RequestInfo struct {
	Method     string
	Path       string
	RemoteAddr string
	StartTime  time.Time
}

type requestInfoKey int

const requestInfoCtxKey requestInfoKey = iota

// WithRequestInfo attaches a RequestInfo to the request context
func WithRequestInfo(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &RequestInfo{
			Method:     r.Method,
			Path:       r.URL.Path,
			RemoteAddr: r.RemoteAddr,
			StartTime:  time.Now(),
		}
		logger.Infof("request info: %s %s from %s", info.Method, info.Path, info.RemoteAddr)
		ctx := context.WithValue(r.Context(), requestInfoCtxKey, info)
		handler.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestInfoFrom returns the RequestInfo attached to the request context, if any
func RequestInfoFrom(ctx context.Context) (*RequestInfo, bool) {
	info, ok := ctx.Value(requestInfoCtxKey).(*RequestInfo)
	return info, ok
}
