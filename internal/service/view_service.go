package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"story-gen/internal/domain"
)

// ErrSubmissionInFlight indica que la vista ya espera una respuesta del proveedor.
var ErrSubmissionInFlight = errors.New("story request already in flight")

// storyRunner es la parte de StoryService que usa ViewService.
type storyRunner interface {
	Prepare(keywords string, genre domain.Genre) (StoryRequest, error)
	Run(ctx context.Context, req StoryRequest) (string, error)
}

// ViewService coordina el estado de una vista de página con el flujo de historias.
type ViewService struct {
	logger  *zap.Logger
	stories storyRunner
	store   ViewStore
	tokens  *ViewTokenService
}

func NewViewService(logger *zap.Logger, stories storyRunner, store ViewStore, tokens *ViewTokenService) *ViewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewService{
		logger:  logger,
		stories: stories,
		store:   store,
		tokens:  tokens,
	}
}

// Start crea una vista nueva y devuelve su token.
func (s *ViewService) Start(ctx context.Context) (domain.View, string, error) {
	view := domain.NewView(uuid.NewString())
	if err := s.store.Save(ctx, view); err != nil {
		return domain.View{}, "", fmt.Errorf("save view: %w", err)
	}
	token, err := s.tokens.Issue(view.ID)
	if err != nil {
		return domain.View{}, "", fmt.Errorf("issue view token: %w", err)
	}
	return view, token, nil
}

// Resume carga la vista de un token; un token inválido equivale a recargar la página.
func (s *ViewService) Resume(ctx context.Context, token string) (domain.View, string, error) {
	viewID, err := s.tokens.Parse(token)
	if err != nil {
		s.logger.Debug("view token rejected, starting new view", zap.Error(err))
		return s.Start(ctx)
	}
	view, err := s.store.Get(ctx, viewID)
	if errors.Is(err, ErrViewNotFound) {
		return s.Start(ctx)
	}
	if err != nil {
		return domain.View{}, "", fmt.Errorf("load view: %w", err)
	}
	return view, token, nil
}

// Submit ejecuta un intento para la vista. Devuelve error solo si la vista
// está en curso o falla el store; los fallos del flujo quedan en el estado.
func (s *ViewService) Submit(ctx context.Context, viewID, keywords string, genre domain.Genre) (domain.View, error) {
	view, err := s.load(ctx, viewID)
	if err != nil {
		return domain.View{}, err
	}

	lockToken, locked, err := s.store.Lock(ctx, viewID)
	if err != nil {
		return view, fmt.Errorf("lock view: %w", err)
	}
	if !locked {
		return view, ErrSubmissionInFlight
	}
	// El estado final se guarda aunque el cliente cancele.
	saveCtx := context.WithoutCancel(ctx)
	defer func() {
		if err := s.store.Unlock(saveCtx, viewID, lockToken); err != nil {
			s.logger.Warn("unlock view failed", zap.String("view_id", viewID), zap.Error(err))
		}
	}()

	// Releer con el lock tomado: otro envío pudo terminar entre medio.
	view, err = s.load(ctx, viewID)
	if err != nil {
		return domain.View{}, err
	}
	if view.State.IsInFlight() {
		// Con el lock libre, un estado en curso es de un intento que murió.
		s.logger.Warn("recovering stale in-flight view", zap.String("view_id", viewID))
		view = view.Fail(MsgGenerationFailure)
	}

	view = view.WithInput(keywords, genre)

	req, err := s.stories.Prepare(keywords, genre)
	if err != nil {
		view = view.Fail(UserMessage(err))
		if err := s.store.Save(saveCtx, view); err != nil {
			return view, fmt.Errorf("save view: %w", err)
		}
		return view, nil
	}

	view = view.Begin()
	if err := s.store.Save(ctx, view); err != nil {
		return view, fmt.Errorf("save view: %w", err)
	}

	// La llamada termina antes de que venza el lock, así ningún otro envío
	// puede tomarlo mientras esta sigue en curso.
	runCtx, cancel := context.WithTimeout(ctx, runTimeout(s.store.LockTTL()))
	story, runErr := s.stories.Run(runCtx, req)
	cancel()
	if runErr != nil {
		view = view.Fail(UserMessage(runErr))
	} else {
		view = view.Succeed(story)
	}
	if err := s.store.Save(saveCtx, view); err != nil {
		return view, fmt.Errorf("save view: %w", err)
	}
	return view, nil
}

// runTimeout deja un margen de un décimo del lock para guardar el resultado.
func runTimeout(lockTTL time.Duration) time.Duration {
	return lockTTL - lockTTL/10
}

func (s *ViewService) load(ctx context.Context, viewID string) (domain.View, error) {
	view, err := s.store.Get(ctx, viewID)
	if errors.Is(err, ErrViewNotFound) {
		return domain.NewView(viewID), nil
	}
	if err != nil {
		return domain.View{}, fmt.Errorf("load view: %w", err)
	}
	return view, nil
}
