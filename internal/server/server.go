package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"menuboard/internal/catalog"
	"menuboard/internal/config"
	"menuboard/internal/menu"
)

// Syncer runs one refresh cycle on demand.
type Syncer interface {
	Sync(ctx context.Context) (catalog.SyncResult, error)
}

type Handler struct {
	menus          *menu.Service
	syncer         Syncer
	hideOutOfStock bool
	logger         *zap.Logger
}

func NewHandler(menus *menu.Service, syncer Syncer, hideOutOfStock bool, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{menus: menus, syncer: syncer, hideOutOfStock: hideOutOfStock, logger: logger}
}

// NewRouter wires the read-only menu API.
func NewRouter(cfg config.Config, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))
	corsCfg := cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	// cors.New panics when no origin is allowed at all.
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/categories", h.Categories)
	r.GET("/categories/:name/items", h.ItemsByCategory)
	r.GET("/items/:id", h.ItemByID)
	r.GET("/search", h.Search)
	r.POST("/refresh", h.Refresh)

	return r
}

func (h *Handler) current() *menu.Menu {
	m := h.menus.Current()
	if h.hideOutOfStock {
		return m.InStock()
	}
	return m
}

func (h *Handler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.current().Categories()})
}

func (h *Handler) ItemsByCategory(c *gin.Context) {
	name := c.Param("name")
	c.JSON(http.StatusOK, gin.H{
		"category": name,
		"items":    h.current().ItemsByCategory(name),
	})
}

func (h *Handler) ItemByID(c *gin.Context) {
	item, ok := h.current().ItemByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// Search filters by ?q=, ?category=, ?min_price=, ?max_price=.
func (h *Handler) Search(c *gin.Context) {
	f := menu.Filter{
		Category:    c.Query("category"),
		SearchTerm:  c.Query("q"),
		InStockOnly: h.hideOutOfStock,
	}
	for key, dst := range map[string]**float64{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a number"})
			return
		}
		*dst = &v
	}
	c.JSON(http.StatusOK, gin.H{"categories": h.menus.Current().Filter(f).Categories()})
}

func (h *Handler) Refresh(c *gin.Context) {
	res, err := h.syncer.Sync(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		var fetchErr *catalog.FetchError
		if errors.As(err, &fetchErr) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error(), "trace_id": res.TraceID})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"trace_id":   res.TraceID,
		"categories": len(res.Menu.CategoryNames()),
		"items":      res.Menu.ItemCount(),
	})
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}
