package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsbridge/internal/dispatch"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsbridge/internal/shared/id"
	"github.com/GriffinCanCode/fsbridge/internal/types"
)

// Frame types
const (
	TypeInvoke = "invoke"
	TypePing   = "ping"
	TypeResult = "result"
	TypePong   = "pong"
	TypeError  = "error"
	TypeSystem = "system"
)

const writeWait = 10 * time.Second

// Options configures the WebSocket transport
type Options struct {
	// MaxInFlight bounds concurrent invocations per connection
	MaxInFlight int
	// ReadLimit caps one incoming frame in bytes
	ReadLimit int64
}

// Handler manages WebSocket connections
type Handler struct {
	registry *dispatch.Registry
	metrics  *monitoring.Metrics
	logger   *logging.Logger
	opts     Options
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler
func NewHandler(registry *dispatch.Registry, metrics *monitoring.Metrics, logger *logging.Logger, opts Options) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = 16
	}
	return &Handler{
		registry: registry,
		metrics:  metrics,
		logger:   logger,
		opts:     opts,
		upgrader: websocket.Upgrader{
			// Origin policy is enforced by the CORS middleware in front of the router
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// connection is one upgraded client; writes are serialized by mu
type connection struct {
	id   id.ConnectionID
	conn *websocket.Conn
	mu   sync.Mutex
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	wc := &connection{id: id.NewConnectionID(), conn: conn}
	logger := h.logger.With(zap.String("conn_id", wc.id.String()))
	if h.opts.ReadLimit > 0 {
		conn.SetReadLimit(h.opts.ReadLimit)
	}

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}
	logger.Debug("websocket connected")

	ctx, cancel := context.WithCancel(c.Request.Context())
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
		conn.Close()
		logger.Debug("websocket disconnected")
	}()

	h.send(wc, types.WSReply{
		Type:    TypeSystem,
		Message: "Connected to Filesystem Bridge " + types.Version,
	})

	slots := make(chan struct{}, h.opts.MaxInFlight)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		var msg types.WSMessage
		if err := sonic.ConfigStd.Unmarshal(data, &msg); err != nil {
			h.record("in", "invalid")
			h.sendError(wc, "", "invalid frame: "+err.Error())
			continue
		}
		h.record("in", msg.Type)

		switch msg.Type {
		case TypeInvoke:
			if msg.ID == "" {
				msg.ID = id.NewRequestID().String()
			}
			slots <- struct{}{}
			wg.Add(1)
			go func(msg types.WSMessage) {
				defer func() {
					<-slots
					wg.Done()
				}()
				h.invoke(ctx, wc, msg)
			}(msg)
		case TypePing:
			h.send(wc, types.WSReply{Type: TypePong, Response: pongFor(msg.ID)})
		default:
			h.sendError(wc, msg.ID, "unknown message type: "+msg.Type)
		}
	}
}

func (h *Handler) invoke(ctx context.Context, wc *connection, msg types.WSMessage) {
	if msg.Command == "" {
		h.sendError(wc, msg.ID, "command is required")
		return
	}

	result, err := h.registry.Invoke(ctx, msg.Command, dispatch.Args(msg.Args))
	resp := dispatch.Respond(msg.ID, result, err)
	h.send(wc, types.WSReply{Type: TypeResult, Response: &resp})
}

func (h *Handler) send(wc *connection, reply types.WSReply) {
	data, err := sonic.ConfigStd.Marshal(reply)
	if err != nil {
		h.logger.Error("failed to encode websocket frame", zap.String("type", reply.Type), zap.Error(err))
		return
	}

	wc.mu.Lock()
	defer wc.mu.Unlock()

	_ = wc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := wc.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Debug("websocket write failed", zap.String("conn_id", wc.id.String()), zap.Error(err))
		return
	}
	h.record("out", reply.Type)
}

func (h *Handler) sendError(wc *connection, reqID, message string) {
	h.send(wc, types.WSReply{
		Type:     TypeError,
		Response: &types.Response{ID: reqID, Success: false, Error: &message},
	})
}

func (h *Handler) record(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}

// pongFor echoes the ping id when the client sent one
func pongFor(reqID string) *types.Response {
	if reqID == "" {
		return nil
	}
	return &types.Response{ID: reqID, Success: true}
}
