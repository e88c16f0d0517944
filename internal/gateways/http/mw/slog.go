package mw

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// GinSlog logs every request with its status, latency and request ID
func GinSlog(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.Int("status", status),
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("query", req.URL.RawQuery),
			slog.String("ip", c.ClientIP()),
			slog.String("ua", req.UserAgent()),
			slog.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000.0),
			slog.Int("size", c.Writer.Size()),
		}
		if rid := c.GetString(RequestIDKey); rid != "" {
			attrs = append(attrs, slog.String("request_id", rid))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.ByType(gin.ErrorTypeAny).String()))
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		l.LogAttrs(c.Request.Context(), level, "http request", attrs...)
	}
}
