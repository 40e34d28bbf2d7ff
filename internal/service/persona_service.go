package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"persona-engine/internal/domain"
	"persona-engine/internal/repository"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// PersonaService coordina los casos de uso sobre personas.
type PersonaService struct {
	logger   *zap.Logger
	personas repository.PersonaRepository
}

func NewPersonaService(logger *zap.Logger, personas repository.PersonaRepository) *PersonaService {
	return &PersonaService{
		logger:   logger,
		personas: personas,
	}
}

// GetOrCreate devuelve la persona existente o crea una nueva con valores
// por defecto. Es idempotente: dos llamadas con el mismo user_id devuelven
// la misma persona.
func (s *PersonaService) GetOrCreate(ctx context.Context, userID string) (domain.Persona, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return domain.Persona{}, err
	}

	persona, err := s.personas.Get(ctx, userID)
	if err == nil {
		return persona, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Persona{}, err
	}

	persona, err = domain.NewPersona(userID)
	if err != nil {
		return domain.Persona{}, err
	}
	if err := s.personas.Create(ctx, persona); err != nil {
		return domain.Persona{}, err
	}
	s.logger.Info("created persona with defaults", zap.String("user_id", userID))

	// Releer tras insertar: si otro POST concurrente gano la insercion,
	// ambos devuelven la fila almacenada.
	return s.personas.Get(ctx, userID)
}

// Get devuelve la persona o ErrPersonaNotFound si no existe.
func (s *PersonaService) Get(ctx context.Context, userID string) (domain.Persona, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return domain.Persona{}, err
	}

	persona, err := s.personas.Get(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Persona{}, domain.ErrPersonaNotFound
	}
	if err != nil {
		return domain.Persona{}, err
	}
	return persona, nil
}

// UpdateTrait reemplaza exactamente un rasgo de la persona y persiste el
// cambio, devolviendo la persona completa actualizada.
func (s *PersonaService) UpdateTrait(ctx context.Context, userID, traitName string, value float64) (domain.Persona, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return domain.Persona{}, err
	}

	persona, err := s.personas.Get(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Persona{}, domain.ErrPersonaNotFound
	}
	if err != nil {
		return domain.Persona{}, err
	}

	if err := persona.SetTrait(traitName, value); err != nil {
		s.logger.Warn("trait update rejected",
			zap.String("user_id", userID),
			zap.String("trait", traitName),
			zap.Float64("value", value),
			zap.Error(err),
		)
		return domain.Persona{}, err
	}

	if err := s.personas.Save(ctx, persona); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Persona{}, domain.ErrPersonaNotFound
		}
		return domain.Persona{}, err
	}

	s.logger.Info("trait updated",
		zap.String("user_id", userID),
		zap.String("trait", traitName),
		zap.Float64("value", value),
	)
	return persona, nil
}

// List devuelve una pagina de personas ordenadas por user_id.
func (s *PersonaService) List(ctx context.Context, limit, offset int) ([]domain.Persona, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.personas.List(ctx, limit, offset)
}
