package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"persona-engine/internal/domain"
)

// PersonaRepository abstrae el almacenamiento de personas.
// Get devuelve pgx.ErrNoRows cuando no existe fila para el user_id.
type PersonaRepository interface {
	Get(ctx context.Context, userID string) (domain.Persona, error)
	Create(ctx context.Context, persona domain.Persona) error
	Save(ctx context.Context, persona domain.Persona) error
	List(ctx context.Context, limit, offset int) ([]domain.Persona, error)
}

type PgPersonaRepository struct {
	pool *pgxpool.Pool
}

func NewPgPersonaRepository(pool *pgxpool.Pool) *PgPersonaRepository {
	return &PgPersonaRepository{pool: pool}
}

func (r *PgPersonaRepository) Get(ctx context.Context, userID string) (domain.Persona, error) {
	const query = `
		SELECT user_id, openness, conscientiousness, extraversion, agreeableness, neuroticism, created_at, updated_at
		FROM personas
		WHERE user_id = $1
	`
	var p domain.Persona
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.Openness,
		&p.Conscientiousness,
		&p.Extraversion,
		&p.Agreeableness,
		&p.Neuroticism,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.Persona{}, err
	}
	return p, nil
}

// Create inserta la persona solo si no existe. La restriccion de unicidad
// sobre user_id resuelve la carrera entre POSTs concurrentes.
func (r *PgPersonaRepository) Create(ctx context.Context, persona domain.Persona) error {
	const query = `
		INSERT INTO personas (user_id, openness, conscientiousness, extraversion, agreeableness, neuroticism, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		persona.UserID,
		persona.Openness,
		persona.Conscientiousness,
		persona.Extraversion,
		persona.Agreeableness,
		persona.Neuroticism,
		persona.CreatedAt,
		persona.UpdatedAt,
	)
	return err
}

func (r *PgPersonaRepository) Save(ctx context.Context, persona domain.Persona) error {
	const query = `
		UPDATE personas
		SET openness = $2,
			conscientiousness = $3,
			extraversion = $4,
			agreeableness = $5,
			neuroticism = $6,
			updated_at = $7
		WHERE user_id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		persona.UserID,
		persona.Openness,
		persona.Conscientiousness,
		persona.Extraversion,
		persona.Agreeableness,
		persona.Neuroticism,
		persona.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgPersonaRepository) List(ctx context.Context, limit, offset int) ([]domain.Persona, error) {
	const query = `
		SELECT user_id, openness, conscientiousness, extraversion, agreeableness, neuroticism, created_at, updated_at
		FROM personas
		ORDER BY user_id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var personas []domain.Persona
	for rows.Next() {
		var p domain.Persona
		if err := rows.Scan(
			&p.UserID,
			&p.Openness,
			&p.Conscientiousness,
			&p.Extraversion,
			&p.Agreeableness,
			&p.Neuroticism,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		personas = append(personas, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return personas, nil
}
