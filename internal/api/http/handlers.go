package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/fsbridge/internal/dispatch"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsbridge/internal/types"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *dispatch.Registry
	metrics  *monitoring.Metrics
	logger   *logging.Logger
	frontend *logging.Logger
	maxBody  int64
}

// NewHandlers creates a new handler set. maxBody caps raw uploads.
func NewHandlers(registry *dispatch.Registry, metrics *monitoring.Metrics, logger *logging.Logger, maxBody int64) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		registry: registry,
		metrics:  metrics,
		logger:   logger,
		frontend: logger.Named("frontend"),
		maxBody:  maxBody,
	}
}

// RegisterRoutes mounts every endpoint on r
func (h *Handlers) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/commands", h.ListCommands)
	r.POST("/invoke", h.InvokeEnvelope)
	r.POST("/invoke/:command", h.Invoke)
	r.POST("/logs", h.StreamLogs)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
}

// Root handles the banner request
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Filesystem Bridge",
		"version": types.Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":     "healthy",
		"version":    types.Version,
		"dispatcher": h.registry.Stats(),
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// ListCommands lists registered services and their commands
func (h *Handlers) ListCommands(c *gin.Context) {
	var category *types.Category
	if raw := c.Query("category"); raw != "" {
		cat := types.Category(raw)
		if cat != types.CategoryFilesystem && cat != types.CategorySystem {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category: " + raw})
			return
		}
		category = &cat
	}

	c.JSON(http.StatusOK, types.ListCommandsResponse{
		Services: h.registry.List(category),
		Stats:    h.registry.Stats(),
	})
}
