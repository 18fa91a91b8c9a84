package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/susradar/susradar-server/pkg/logger"
)

const maxLoggedBody = 4096

// RequestLog logs method, path, status and duration for every request.
// JSON request bodies are logged with password fields masked; the body is
// restored so handlers can still read it.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		if body := redactedBody(c); body != "" {
			logger.Debugf("request body: %s", body)
		}

		c.Next()

		logger.Infof("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func redactedBody(c *gin.Context) string {
	if c.Request.Body == nil || c.Request.ContentLength <= 0 || c.Request.ContentLength > maxLoggedBody {
		return ""
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	if _, ok := fields["password"]; ok {
		fields["password"] = json.RawMessage(`"***"`)
	}
	masked, err := json.Marshal(fields)
	if err != nil {
		return ""
	}
	return string(masked)
}
