package middleware

import (
	"net/http"
)

// RejectFunc writes the response for a body refused by BodyLimit.
type RejectFunc func(w http.ResponseWriter, r *http.Request, err error)

// BodyLimit caps the request body at limit bytes. A declared
// Content-Length above the limit is handed to reject before the handler
// runs, as a *http.MaxBytesError, the same error later reads past the
// limit fail with. A nil reject answers with a plain-text 413.
// A limit of zero or less disables the cap.
func BodyLimit(limit int64, reject RejectFunc) func(http.Handler) http.Handler {
	if reject == nil {
		reject = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		}
	}

	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				reject(w, r, &http.MaxBytesError{Limit: limit})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
