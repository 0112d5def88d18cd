package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskchat/internal/config"
	"github.com/BuzzLyutic/taskchat/internal/model"
	"github.com/BuzzLyutic/taskchat/internal/service"
	"github.com/BuzzLyutic/taskchat/pkg/respond"
)

const maxBodyBytes = 1 << 20

type Extractor interface {
	Extract(ctx context.Context, message string, mode model.Mode) (service.Extraction, error)
}

type ChatHandler struct {
	service     Extractor
	logger      *zap.Logger
	mode        model.Mode
	legacyEmpty bool
}

func NewChatHandler(srv Extractor, logger *zap.Logger, cfg config.ExtractionConfig) *ChatHandler {
	mode := cfg.Mode
	if mode == "" {
		mode = model.ModeEpics
	}
	return &ChatHandler{
		service:     srv,
		logger:      logger,
		mode:        mode,
		legacyEmpty: cfg.LegacyEmptyOnFailure,
	}
}

// Chat handles POST /chat with body {"message": "..."}. The optional
// ?mode=epics|tasks query overrides the configured response contract.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	mode := h.mode
	if q := r.URL.Query().Get("mode"); q != "" {
		m, err := model.ParseMode(q)
		if err != nil {
			respond.Error(w, r, http.StatusBadRequest, err.Error())
			return
		}
		mode = m
	}

	var req model.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	result, err := h.service.Extract(r.Context(), req.Message, mode)
	if err != nil {
		h.handleErrors(w, r, err, mode)
		return
	}

	if mode == model.ModeTasks {
		respond.JSON(w, r, http.StatusOK, model.TaskList{Tasks: result.Tasks})
		return
	}
	respond.JSON(w, r, http.StatusOK, model.EpicList{Epics: result.Epics})
}

func (h *ChatHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error, mode model.Mode) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, "validation error")
	case errors.Is(err, service.ErrExtraction):
		h.logger.Error("extraction failed", zap.String("mode", string(mode)), zap.Error(err))
		if h.legacyEmpty {
			respond.JSON(w, r, http.StatusOK, emptyList(mode))
			return
		}
		respond.ErrorWith(w, r, http.StatusBadGateway, "extraction failed", emptyList(mode))
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}

func emptyList(mode model.Mode) map[string]any {
	if mode == model.ModeTasks {
		return map[string]any{"tasks": []model.Task{}}
	}
	return map[string]any{"epics": []model.Epic{}}
}

func Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
