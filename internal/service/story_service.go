package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"story-gen/internal/domain"
	"story-gen/internal/llm"
	"story-gen/internal/metrics"
)

const storyPromptTemplate = "Write a creative %s story using these keywords: %s. The story should be engaging and approximately 300-500 words."

// StoryRequest es una solicitud ya validada, lista para enviarse al proveedor.
type StoryRequest struct {
	Keywords string
	Genre    domain.Genre
	Prompt   string
}

// StoryService valida entradas, llama al proveedor y traduce el resultado.
type StoryService struct {
	logger    *zap.Logger
	llmClient llm.LLMClient
	now       func() time.Time
}

func NewStoryService(logger *zap.Logger, llmClient llm.LLMClient) *StoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoryService{
		logger:    logger,
		llmClient: llmClient,
		now:       time.Now,
	}
}

// BuildPrompt arma el prompt fijo para un género y palabras clave.
func BuildPrompt(genre domain.Genre, keywords string) string {
	return fmt.Sprintf(storyPromptTemplate, genre, keywords)
}

// Prepare revisa las precondiciones en orden; la primera que falla gana.
func (s *StoryService) Prepare(keywords string, genre domain.Genre) (StoryRequest, error) {
	if strings.TrimSpace(keywords) == "" {
		metrics.RecordSubmission(metrics.OutcomeValidationError)
		return StoryRequest{}, &ValidationError{Message: MsgEmptyKeywords}
	}
	if s.llmClient == nil || !s.llmClient.HasCredential() {
		metrics.RecordSubmission(metrics.OutcomeConfigurationError)
		return StoryRequest{}, &ConfigurationError{Message: MsgMissingAPIKey}
	}
	if genre == "" {
		genre = domain.DefaultGenre
	}
	return StoryRequest{
		Keywords: keywords,
		Genre:    genre,
		Prompt:   BuildPrompt(genre, keywords),
	}, nil
}

// Run hace exactamente una llamada al proveedor.
func (s *StoryService) Run(ctx context.Context, req StoryRequest) (string, error) {
	start := s.now()
	story, err := s.llmClient.Generate(ctx, req.Prompt)
	elapsed := s.now().Sub(start)
	if err != nil {
		providerErr := classifyProviderError(err)
		metrics.RecordGeneration(outcomeForCode(providerErr.Code), elapsed)
		s.logger.Error("story generation failed",
			zap.String("genre", req.Genre.String()),
			zap.String("code", providerErr.Code),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return "", providerErr
	}

	metrics.RecordGeneration(metrics.OutcomeSuccess, elapsed)
	s.logger.Info("story generated",
		zap.String("genre", req.Genre.String()),
		zap.Int("story_len", len(story)),
		zap.Duration("elapsed", elapsed),
	)
	return story, nil
}

// Generate ejecuta Prepare y Run sin estado de vista.
func (s *StoryService) Generate(ctx context.Context, keywords string, genre domain.Genre) (string, error) {
	req, err := s.Prepare(keywords, genre)
	if err != nil {
		return "", err
	}
	return s.Run(ctx, req)
}

func classifyProviderError(err error) *ProviderError {
	code := llm.ErrorCode(err)
	switch code {
	case llm.CodeInsufficientQuota:
		return &ProviderError{Code: code, Message: MsgQuotaExceeded, Err: err}
	case llm.CodeInvalidAPIKey:
		return &ProviderError{Code: code, Message: MsgInvalidAPIKey, Err: err}
	default:
		return &ProviderError{Code: code, Message: MsgGenerationFailure, Err: err}
	}
}

func outcomeForCode(code string) string {
	switch code {
	case llm.CodeInsufficientQuota:
		return metrics.OutcomeInsufficientQuota
	case llm.CodeInvalidAPIKey:
		return metrics.OutcomeInvalidAPIKey
	default:
		return metrics.OutcomeProviderError
	}
}
