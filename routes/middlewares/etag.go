package middlewares

import (
	"net/http"
	"strings"

	"github.com/mbolis/quick-form/httpx"
	"github.com/mbolis/quick-form/log"
)

// ETag buffers successful GET responses, tags them with a hash of the body
// and answers a matching If-None-Match with 304.
func ETag(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		buf := httpx.NewResponseBuffer()
		next.ServeHTTP(buf, r)

		if buf.Status() == http.StatusOK {
			etag := buf.ETag()
			buf.Header().Set("ETag", etag)
			if etagMatches(r.Header.Get("If-None-Match"), etag) {
				w.Header().Set("ETag", etag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}

		err := buf.Flush(w)
		if err != nil {
			log.Debug("response.flush:", err)
		}
	})
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
