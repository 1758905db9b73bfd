package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"story-gen/internal/domain"
	"story-gen/internal/service"
)

// PageHandler sirve la página HTML del generador.
type PageHandler struct {
	logger *zap.Logger
	views  *service.ViewService
}

// NewPageHandler crea una instancia de PageHandler.
func NewPageHandler(logger *zap.Logger, views *service.ViewService) *PageHandler {
	return &PageHandler{
		logger: logger,
		views:  views,
	}
}

// Index maneja GET /. Cada carga empieza una vista nueva.
func (h *PageHandler) Index(c *gin.Context) {
	view, token, err := h.views.Start(c.Request.Context())
	if err != nil {
		h.logger.Error("start view failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "could not start story view")
		return
	}
	c.HTML(http.StatusOK, pageTemplateName, newPageData(token, view))
}

// SubmitStory maneja POST /story.
func (h *PageHandler) SubmitStory(c *gin.Context) {
	ctx := c.Request.Context()

	view, token, err := h.views.Resume(ctx, c.PostForm("view"))
	if err != nil {
		h.logger.Error("resume view failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "could not load story view")
		return
	}

	genre, ok := domain.ParseGenre(c.PostForm("genre"))
	if !ok {
		h.logger.Warn("unknown genre in form, using default", zap.String("genre", c.PostForm("genre")))
		genre = domain.DefaultGenre
	}

	view, err = h.views.Submit(ctx, view.ID, c.PostForm("keywords"), genre)
	if err != nil {
		if errors.Is(err, service.ErrSubmissionInFlight) {
			c.HTML(http.StatusConflict, pageTemplateName, newPageData(token, view))
			return
		}
		h.logger.Error("submit story failed", zap.String("view_id", view.ID), zap.Error(err))
		c.String(http.StatusInternalServerError, "could not process story request")
		return
	}

	c.HTML(http.StatusOK, pageTemplateName, newPageData(token, view))
}
