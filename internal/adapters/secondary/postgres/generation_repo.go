package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
	ports "github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/ports/output"
)

const generationColumns = `id, created_at, user_prompt, enhanced_prompt, image_path, model_3d_path, model_format, tags, status, error`

type generationRepo struct {
	pool *pgxpool.Pool
}

// NewGenerationRepository creates a new GenerationRepository backed by pool
func NewGenerationRepository(pool *pgxpool.Pool) ports.GenerationRepository {
	return &generationRepo{pool: pool}
}

func (r *generationRepo) Create(ctx context.Context, gen *domain.Generation) error {
	query := `
		INSERT INTO generations
			(id, created_at, user_prompt, enhanced_prompt, image_path, model_3d_path, model_format, tags, status, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		gen.ID, gen.CreatedAt,
		gen.UserPrompt, gen.EnhancedPrompt, gen.ImagePath, gen.ModelPath,
		gen.ModelFormat, gen.Tags, string(gen.Status), gen.Error,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("create generation: duplicate id %s", gen.ID)
		}
		return fmt.Errorf("create generation: %w", err)
	}
	return nil
}

func (r *generationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Generation, error) {
	query := `SELECT ` + generationColumns + ` FROM generations WHERE id = $1`

	gen, err := scanGeneration(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGenerationNotFound
		}
		return nil, fmt.Errorf("get generation by id: %w", err)
	}
	return gen, nil
}

func (r *generationRepo) List(ctx context.Context, filter ports.GenerationFilter) ([]*domain.Generation, int, error) {
	whereClause, args := buildWhere(filter)
	argPos := len(args) + 1

	// Count
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM generations WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count generations: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM generations
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, generationColumns, whereClause, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	gens := []*domain.Generation{}
	for rows.Next() {
		gen, err := scanGeneration(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan generation row: %w", err)
		}
		gens = append(gens, gen)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate generation rows: %w", err)
	}

	return gens, total, nil
}

func (r *generationRepo) Search(ctx context.Context, query string, limit int) ([]*domain.Generation, error) {
	gens, _, err := r.List(ctx, ports.GenerationFilter{Query: query, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("search generations: %w", err)
	}
	return gens, nil
}

func (r *generationRepo) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM generations`)
	if err != nil {
		return 0, fmt.Errorf("delete generations: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *generationRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *generationRepo) Close() error {
	r.pool.Close()
	return nil
}

// buildWhere returns the WHERE clause for filter and its positional args.
func buildWhere(filter ports.GenerationFilter) (string, []interface{}) {
	conditions := []string{"TRUE"}
	var args []interface{}
	argPos := 1

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(user_prompt ILIKE $%d OR enhanced_prompt ILIKE $%d OR tags ILIKE $%d)",
			argPos, argPos, argPos,
		))
		args = append(args, likePattern(filter.Query))
		argPos++
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argPos))
		args = append(args, filter.Since)
	}

	return strings.Join(conditions, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

func scanGeneration(row pgx.Row) (*domain.Generation, error) {
	gen := &domain.Generation{}
	var status string
	err := row.Scan(
		&gen.ID, &gen.CreatedAt,
		&gen.UserPrompt, &gen.EnhancedPrompt, &gen.ImagePath, &gen.ModelPath,
		&gen.ModelFormat, &gen.Tags, &status, &gen.Error,
	)
	if err != nil {
		return nil, err
	}
	gen.Status = domain.GenerationStatus(status)
	return gen, nil
}
