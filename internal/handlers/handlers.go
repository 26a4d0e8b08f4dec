package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Brownie44l1/plant-disease-api/internal/failure"
	"github.com/Brownie44l1/plant-disease-api/internal/history"
	"github.com/Brownie44l1/plant-disease-api/internal/pipeline"
	"github.com/Brownie44l1/plant-disease-api/internal/registry"
)

type Predictor interface {
	Run(ctx context.Context, species string, raw []byte) (*pipeline.Outcome, error)
}

type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

type LoadedModels interface {
	Loaded() []registry.Species
}

type Handler struct {
	predictor Predictor
	registry  *registry.Registry
	models    LoadedModels
	history   HistoryReader
	maxUpload int64
	logger    *zap.Logger
}

// NewHandler builds the HTTP surface. history may be nil when prediction
// history is disabled.
func NewHandler(predictor Predictor, reg *registry.Registry, models LoadedModels, hist HistoryReader, maxUpload int64, logger *zap.Logger) *Handler {
	return &Handler{
		predictor: predictor,
		registry:  reg,
		models:    models,
		history:   hist,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/species", h.Species)
	r.POST("/predict", h.Predict)
	r.GET("/history", h.History)
}

func (h *Handler) Health(c *gin.Context) {
	loaded := h.models.Loaded()
	names := make([]string, len(loaded))
	for i, s := range loaded {
		names[i] = string(s)
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"loaded_models": names,
	})
}

type speciesInfo struct {
	ID     string   `json:"id"`
	Labels []string `json:"labels"`
}

func (h *Handler) Species(c *gin.Context) {
	var out []speciesInfo
	for _, id := range h.registry.Species() {
		p, err := h.registry.Resolve(string(id))
		if err != nil {
			continue
		}
		out = append(out, speciesInfo{ID: string(id), Labels: p.Labels()})
	}
	c.JSON(http.StatusOK, gin.H{"species": out})
}

// Predict expects a multipart form with an "image" file and a "species" field.
func (h *Handler) Predict(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	if err := c.Request.ParseMultipartForm(h.maxUpload); err != nil {
		h.fail(c, failure.New(failure.KindInvalidRequest, "handlers.Predict",
			fmt.Errorf("failed to parse form: %w", err)))
		return
	}

	species := c.PostForm("species")
	if species == "" {
		h.fail(c, failure.New(failure.KindInvalidRequest, "handlers.Predict",
			errors.New("missing 'species' form field")))
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		h.fail(c, failure.New(failure.KindInvalidRequest, "handlers.Predict",
			errors.New("no image file provided, use 'image' as the form field name")))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.fail(c, failure.New(failure.KindInvalidRequest, "handlers.Predict", err))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		h.fail(c, failure.New(failure.KindInvalidRequest, "handlers.Predict", err))
		return
	}

	h.logger.Debug("Received upload",
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size),
		zap.String("species", species))

	out, err := h.predictor.Run(c.Request.Context(), species, raw)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) History(c *gin.Context) {
	if h.history == nil {
		h.fail(c, failure.NotFound("handlers.History", "prediction history is disabled"))
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			h.fail(c, failure.New(failure.KindInvalidRequest, "handlers.History",
				errors.New("limit must be an integer between 1 and 500")))
			return
		}
		limit = n
	}

	entries, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to read history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody{Kind: "internal", Message: "failed to read history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": entries, "total": len(entries)})
}
