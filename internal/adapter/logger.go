package adapter

import (
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const redacted = "[redacted]"

// restyLogger implements resty.Logger on top of zerolog.
type restyLogger struct {
	l zerolog.Logger
}

// Debugf implements resty.Logger.
func (r restyLogger) Debugf(format string, v ...interface{}) {
	r.l.Debug().Msgf(strings.TrimRight(format, "\n"), v...)
}

// Errorf implements resty.Logger.
func (r restyLogger) Errorf(format string, v ...interface{}) {
	r.l.Error().Msgf(strings.TrimRight(format, "\n"), v...)
}

// Warnf implements resty.Logger.
func (r restyLogger) Warnf(format string, v ...interface{}) {
	r.l.Warn().Msgf(strings.TrimRight(format, "\n"), v...)
}

// logRequest logs outgoing requests at debug level. It must run after the
// signer so the credentials it masks are already in place.
func logRequest(logger zerolog.Logger) resty.RequestMiddleware {
	return func(_ *resty.Client, r *resty.Request) error {
		logger.Debug().
			Str("method", r.Method).
			Str("url", r.URL).
			Interface("headers", redactHeaders(r.Header)).
			Msg("request")
		return nil
	}
}

func redactHeaders(h http.Header) map[string]string {
	ret := make(map[string]string, len(h))
	for k := range h {
		if strings.EqualFold(k, "Authorization") {
			ret[k] = redacted
			continue
		}
		ret[k] = h.Get(k)
	}

	return ret
}
