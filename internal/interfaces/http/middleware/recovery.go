package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
)

// Recovery turns a handler panic into a 500 and logs the stack.
func Recovery(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic recovered",
					logging.String("panic", fmt.Sprint(rec)),
					logging.String("method", r.Method),
					logging.String("path", r.URL.Path),
					logging.String("request_id", GetRequestID(r.Context())),
					logging.String("stack", string(debug.Stack())))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"code":"COMMON_001","message":"internal server error"}`))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

//Personal.AI order the ending
