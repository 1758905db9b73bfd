package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"story-gen/internal/domain"
	"story-gen/internal/llm"
	"story-gen/internal/service"
)

// Códigos de error de la API JSON.
const (
	codeInvalidRequest    = "invalid_request"
	codeUnknownGenre      = "unknown_genre"
	codeValidation        = "validation_error"
	codeConfiguration     = "configuration_error"
	codeInsufficientQuota = llm.CodeInsufficientQuota
	codeInvalidAPIKey     = llm.CodeInvalidAPIKey
	codeProviderError     = "provider_error"
)

// StoryAPIHandler expone el flujo de historias como JSON, sin estado de vista.
type StoryAPIHandler struct {
	logger  *zap.Logger
	stories *service.StoryService
}

// NewStoryAPIHandler crea una instancia de StoryAPIHandler.
func NewStoryAPIHandler(logger *zap.Logger, stories *service.StoryService) *StoryAPIHandler {
	return &StoryAPIHandler{
		logger:  logger,
		stories: stories,
	}
}

// ListGenres maneja GET /api/genres.
func (h *StoryAPIHandler) ListGenres(c *gin.Context) {
	genres := make([]string, 0, len(domain.Genres))
	for _, g := range domain.Genres {
		genres = append(genres, g.String())
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres, "default": domain.DefaultGenre.String()})
}

// CreateStory maneja POST /api/stories.
func (h *StoryAPIHandler) CreateStory(c *gin.Context) {
	var req struct {
		Keywords string `json:"keywords"`
		Genre    string `json:"genre"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create story request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "code": codeInvalidRequest})
		return
	}

	genre, ok := domain.ParseGenre(req.Genre)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown genre", "code": codeUnknownGenre})
		return
	}

	story, err := h.stories.Generate(c.Request.Context(), req.Keywords, genre)
	if err != nil {
		status, code := apiErrorStatus(err)
		c.JSON(status, gin.H{"error": service.UserMessage(err), "code": code})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"story":      story,
		"paragraphs": domain.Paragraphs(story),
		"genre":      genre.String(),
	})
}

func apiErrorStatus(err error) (int, string) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, codeValidation
	}
	var configErr *service.ConfigurationError
	if errors.As(err, &configErr) {
		return http.StatusServiceUnavailable, codeConfiguration
	}
	var providerErr *service.ProviderError
	if errors.As(err, &providerErr) {
		switch providerErr.Code {
		case llm.CodeInsufficientQuota:
			return http.StatusTooManyRequests, codeInsufficientQuota
		case llm.CodeInvalidAPIKey:
			return http.StatusBadGateway, codeInvalidAPIKey
		}
	}
	return http.StatusBadGateway, codeProviderError
}
