package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FrontendLogEntry represents a log entry sent by the front-end
type FrontendLogEntry struct {
	ID        string                 `json:"id"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context"`
	Timestamp string                 `json:"timestamp"`
}

// FrontendLogRequest represents a batch of front-end logs
type FrontendLogRequest struct {
	Source  string             `json:"source"`
	Entries []FrontendLogEntry `json:"entries"`
}

// maxLogEntries bounds one batch
const maxLogEntries = 500

// StreamLogs writes front-end log entries into the bridge log
func (h *Handlers) StreamLogs(c *gin.Context) {
	var req FrontendLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log request format"})
		return
	}

	if len(req.Entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no log entries provided"})
		return
	}
	if len(req.Entries) > maxLogEntries {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many log entries"})
		return
	}

	source := req.Source
	if source == "" {
		source = "ui"
	}
	for _, entry := range req.Entries {
		h.logFrontendEntry(source, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"entries_received": len(req.Entries),
		"timestamp":        time.Now().Unix(),
	})
}

func (h *Handlers) logFrontendEntry(source string, entry FrontendLogEntry) {
	fields := make([]zap.Field, 0, len(entry.Context)+3)
	fields = append(fields,
		zap.String("source", source),
		zap.String("ui_log_id", entry.ID),
		zap.String("ui_timestamp", entry.Timestamp),
	)

	for key, value := range entry.Context {
		switch v := value.(type) {
		case string:
			fields = append(fields, zap.String(key, v))
		case float64:
			fields = append(fields, zap.Float64(key, v))
		case bool:
			fields = append(fields, zap.Bool(key, v))
		default:
			fields = append(fields, zap.Any(key, v))
		}
	}

	switch entry.Level {
	case "error":
		h.frontend.Error(entry.Message, fields...)
	case "warn":
		h.frontend.Warn(entry.Message, fields...)
	case "debug", "verbose":
		h.frontend.Debug(entry.Message, fields...)
	default:
		h.frontend.Info(entry.Message, fields...)
	}
}
