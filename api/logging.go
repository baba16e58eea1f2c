package api

import (
	"github.com/rs/zerolog"
	"net/http"
	"text2phenotype.com/compound/logger"
)

var apiLogger = logger.NewLogger("API")

// makeRequestLogger tags every line of one request with its id and origin.
func makeRequestLogger(request *http.Request, tid string) zerolog.Logger {
	return apiLogger.With().
		Str("tid", tid).
		Str("method", request.Method).
		Str("path", request.URL.Path).
		Str("remote_addr", request.RemoteAddr).
		Int64("content_length", request.ContentLength).
		Logger()
}
