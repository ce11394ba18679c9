package http

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsbridge/internal/api/middleware"
	"github.com/GriffinCanCode/fsbridge/internal/dispatch"
	"github.com/GriffinCanCode/fsbridge/internal/providers/filesystem"
	"github.com/GriffinCanCode/fsbridge/internal/shared/id"
	"github.com/GriffinCanCode/fsbridge/internal/types"
)

const (
	// HeaderRequestID carries the caller's invocation id
	HeaderRequestID = "X-Request-ID"

	octetStream = "application/octet-stream"
)

// Invoke runs the command named in the path with the JSON body as arguments.
//
// fs_write_file also accepts a raw application/octet-stream body with the
// path in the query string, and fs_read_file answers with raw bytes when the
// caller accepts application/octet-stream.
func (h *Handlers) Invoke(c *gin.Context) {
	command := c.Param("command")
	reqID := requestID(c)

	if command == filesystem.CmdWriteFile && c.ContentType() == octetStream {
		h.writeRaw(c, reqID)
		return
	}

	body, ok := h.readBody(c)
	if !ok {
		return
	}
	args := dispatch.Args(body)

	if command == filesystem.CmdReadFile && acceptsOctetStream(c) {
		h.readRaw(c, reqID, args)
		return
	}

	h.respond(c, reqID, command, args)
}

// InvokeEnvelope runs a command described by an InvokeRequest body
func (h *Handlers) InvokeEnvelope(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	var req types.InvokeRequest
	if err := sonic.ConfigStd.Unmarshal(body, &req); err != nil {
		h.fail(c, http.StatusBadRequest, "", errors.New("invalid request: "+err.Error()))
		return
	}
	if req.Command == "" {
		h.fail(c, http.StatusBadRequest, req.ID, errors.New("command is required"))
		return
	}

	reqID := req.ID
	if reqID == "" {
		reqID = requestID(c)
	}
	h.respond(c, reqID, req.Command, dispatch.Args(req.Args))
}

func (h *Handlers) respond(c *gin.Context, reqID, command string, args dispatch.Args) {
	result, err := h.registry.Invoke(c.Request.Context(), command, args)
	c.Header(HeaderRequestID, reqID)
	c.JSON(StatusFor(err), dispatch.Respond(reqID, result, err))
}

func (h *Handlers) readRaw(c *gin.Context, reqID string, args dispatch.Args) {
	result, err := h.registry.Invoke(c.Request.Context(), filesystem.CmdReadFile, args)
	c.Header(HeaderRequestID, reqID)
	if err != nil {
		c.JSON(StatusFor(err), dispatch.Respond(reqID, nil, err))
		return
	}

	data, _ := result.(types.Bytes)
	c.Data(http.StatusOK, mimetype.Detect(data).String(), data)
}

func (h *Handlers) writeRaw(c *gin.Context, reqID string) {
	path, ok := c.GetQuery("path")
	if !ok {
		h.fail(c, http.StatusBadRequest, reqID, errors.New("path query parameter is required"))
		return
	}

	body, ok := h.readBody(c)
	if !ok {
		return
	}

	args, err := dispatch.NewArgs(map[string]string{
		"path": path,
		"data": base64.StdEncoding.EncodeToString(body),
	})
	if err != nil {
		h.fail(c, http.StatusInternalServerError, reqID, err)
		return
	}
	h.respond(c, reqID, filesystem.CmdWriteFile, args)
}

func (h *Handlers) readBody(c *gin.Context) ([]byte, bool) {
	if c.Request.Body == nil {
		return nil, true
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			middleware.AbortBodyTooLarge(c, h.maxBody)
			return nil, false
		}
		h.fail(c, http.StatusBadRequest, "", err)
		return nil, false
	}
	return body, true
}

func (h *Handlers) fail(c *gin.Context, status int, reqID string, err error) {
	h.logger.Debug("request rejected",
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)
	msg := err.Error()
	c.AbortWithStatusJSON(status, types.Response{ID: reqID, Success: false, Error: &msg})
}

// StatusFor maps an invocation error to an HTTP status. Command failures
// are reported in the body with 200; only dispatcher rejections change it.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, dispatch.ErrUnknownCommand):
		return http.StatusNotFound
	case errors.Is(err, dispatch.ErrInvalidArgs):
		return http.StatusBadRequest
	default:
		return http.StatusOK
	}
}

func requestID(c *gin.Context) string {
	if reqID := c.GetHeader(HeaderRequestID); reqID != "" {
		return reqID
	}
	return id.NewRequestID().String()
}

func acceptsOctetStream(c *gin.Context) bool {
	for _, part := range strings.Split(c.GetHeader("Accept"), ",") {
		mediaType := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if mediaType == octetStream {
			return true
		}
	}
	return false
}
