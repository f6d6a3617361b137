package httpapi

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// read once
var defaultLogLevel = func() LogLevel {
	if v, ok := os.LookupEnv("LIGHTD_HTTP_LOG_LEVEL"); ok {
		return parseLevel(v)
	}
	return LevelInfo
}()

func requestLogLevel(r *http.Request) LogLevel {
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// logRequest emits one line for a handled request when the request's log
// level admits lvl. kv holds alternating keys and values.
func logRequest(r *http.Request, lvl LogLevel, status int, err error, msg string, kv ...any) {
	if requestLogLevel(r) < lvl {
		return
	}
	if zlog != nil {
		var ev *zerolog.Event
		if err != nil {
			ev = zlog.Warn().Err(err)
		} else if lvl >= LevelDebug {
			ev = zlog.Debug()
		} else {
			ev = zlog.Info()
		}
		ev = ev.Str("path", r.URL.Path).Int("status", status)
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			ev = ev.Str("request_id", rid)
		}
		ev.Fields(kv).Msg(msg)
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s path=%s status=%d", msg, r.URL.Path, status)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	if err != nil {
		fmt.Fprintf(&b, " err=%v", err)
	}
	log.Print(b.String())
}

func logf(format string, args ...any) {
	if zlog != nil {
		zlog.Error().Msgf(format, args...)
		return
	}
	log.Printf(format, args...)
}
