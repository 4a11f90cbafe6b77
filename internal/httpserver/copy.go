package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"spotvoice/internal/copywriter"
	"spotvoice/internal/middleware"
	"spotvoice/internal/voice"
)

// MaxVariations ограничивает число вариантов на один запрос: каждый вариант
// это один или два последовательных вызова модели.
const MaxVariations = 10

const maxBodyBytes = 64 << 10

type CopyWriter interface {
	Write(ctx context.Context, input string, n int) (copywriter.Result, error)
}

type ResultStore interface {
	Put(ctx context.Context, res copywriter.Result) error
	Get(ctx context.Context, id string) (copywriter.Result, bool, error)
}

// CopyDeps.Timeout ограничивает генерацию одного запроса; 0 значит без ограничения.
// Сервер должен держать WriteTimeout больше этого значения.
type CopyDeps struct {
	Writer  CopyWriter
	Store   ResultStore
	Logger  *slog.Logger
	Timeout time.Duration
}

type CopyHandler struct {
	writer  CopyWriter
	store   ResultStore
	logger  *slog.Logger
	timeout time.Duration
}

func NewCopyHandler(deps CopyDeps) *CopyHandler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CopyHandler{
		writer:  deps.Writer,
		store:   deps.Store,
		logger:  logger,
		timeout: deps.Timeout,
	}
}

type createCopyRequest struct {
	Input      string `json:"input"`
	Variations *int   `json:"variations,omitempty"`
}

type checkRequest struct {
	Text string `json:"text"`
}

type checkResponse struct {
	Violations []voice.Violation `json:"violations"`
}

// Create генерирует варианты копирайта и сохраняет результат.
func (h *CopyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCopyRequest
	if err := decodeBody(w, r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_request", "cannot parse request body")
		return
	}

	n := copywriter.DefaultVariations
	if req.Variations != nil {
		n = *req.Variations
	}
	if n > MaxVariations {
		WriteJSONError(w, http.StatusBadRequest, "invalid_request", "too many variations")
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	res, err := h.writer.Write(ctx, req.Input, n)
	switch {
	case errors.Is(err, copywriter.ErrEmptyInput), errors.Is(err, copywriter.ErrInvalidVariations):
		WriteJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	case err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		h.logger.Warn("copy generation timed out",
			slog.String("request_id", middleware.RequestIDFrom(ctx)),
			slog.Duration("timeout", h.timeout))
		WriteJSONError(w, http.StatusGatewayTimeout, "timeout", "copy generation took too long")
		return
	case err != nil:
		h.logger.Error("copy generation failed",
			slog.String("request_id", middleware.RequestIDFrom(ctx)),
			slog.String("error", err.Error()))
		WriteJSONError(w, http.StatusBadGateway, "upstream_error", "copy generation failed")
		return
	}

	if err := h.store.Put(ctx, res); err != nil {
		h.logger.Warn("store result failed",
			slog.String("id", res.ID),
			slog.String("error", err.Error()))
	}
	WriteJSON(w, http.StatusCreated, res)
}

// Get отдаёт ранее сгенерированный результат по id.
func (h *CopyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, ok, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("load result failed", slog.String("id", id), slog.String("error", err.Error()))
		WriteJSONError(w, http.StatusInternalServerError, "internal", "cannot load result")
		return
	}
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "result not found or expired")
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// Check прогоняет текст через правила голоса без обращения к модели.
func (h *CopyHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeBody(w, r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_request", "cannot parse request body")
		return
	}
	violations := voice.Lint(req.Text)
	if violations == nil {
		violations = []voice.Violation{}
	}
	WriteJSON(w, http.StatusOK, checkResponse{Violations: violations})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after body")
	}
	return nil
}
