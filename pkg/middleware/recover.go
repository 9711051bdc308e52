package middleware

import (
	"net/http"
	"runtime/debug"
)

// FaultHandler writes the response for a recovered panic.
type FaultHandler func(w http.ResponseWriter, r *http.Request, recovered any, stack []byte)

// Recover turns a panic in next into a call to onFault. http.ErrAbortHandler
// is re-raised so net/http can abort the connection as usual. The writer
// handed to onFault reports through Written whether next already started
// the response.
func Recover(onFault FaultHandler, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw, ok := w.(*responseWriter)
		if !ok {
			rw = &responseWriter{ResponseWriter: w, status: http.StatusOK}
		}
		w = rw

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			onFault(w, r, rec, debug.Stack())
		}()
		next.ServeHTTP(w, r)
	})
}

// Written reports whether a status line or body bytes have already gone
// out on w. It only knows about writers wrapped by this package.
func Written(w http.ResponseWriter) bool {
	rw, ok := w.(*responseWriter)
	return ok && rw.wroteHeader
}
