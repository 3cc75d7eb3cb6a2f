package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
	ports "github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/ports/output"
)

// Fixed-width UTC layout so that lexical order matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type generationRepo struct {
	db *sql.DB
}

// NewGenerationRepository opens (and creates if needed) the SQLite memory database.
func NewGenerationRepository(ctx context.Context, path string) (ports.GenerationRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite: single connection to avoid database locking issues
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	r := &generationRepo{db: db}
	if err := r.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return r, nil
}

func (r *generationRepo) initSchema(ctx context.Context) error {
	createTable := `
	CREATE TABLE IF NOT EXISTS generations (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		user_prompt TEXT NOT NULL,
		enhanced_prompt TEXT NOT NULL DEFAULT '',
		image_path TEXT NOT NULL DEFAULT '',
		model_3d_path TEXT NOT NULL DEFAULT '',
		model_format TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'completed',
		error TEXT NOT NULL DEFAULT ''
	);`
	if _, err := r.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("create generations table: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_generations_timestamp ON generations(timestamp)`); err != nil {
		return fmt.Errorf("create timestamp index: %w", err)
	}
	return nil
}

func (r *generationRepo) Create(ctx context.Context, gen *domain.Generation) error {
	query := `
		INSERT INTO generations
			(id, timestamp, user_prompt, enhanced_prompt, image_path, model_3d_path, model_format, tags, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		gen.ID.String(), gen.CreatedAt.UTC().Format(timeLayout),
		gen.UserPrompt, gen.EnhancedPrompt, gen.ImagePath, gen.ModelPath,
		gen.ModelFormat, gen.Tags, string(gen.Status), gen.Error,
	)
	if err != nil {
		return fmt.Errorf("create generation: %w", err)
	}
	return nil
}

func (r *generationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Generation, error) {
	query := `
		SELECT id, timestamp, user_prompt, enhanced_prompt, image_path, model_3d_path, model_format, tags, status, error
		FROM generations
		WHERE id = ?
	`

	gen, err := scanGeneration(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGenerationNotFound
		}
		return nil, fmt.Errorf("get generation by id: %w", err)
	}
	return gen, nil
}

func (r *generationRepo) List(ctx context.Context, filter ports.GenerationFilter) ([]*domain.Generation, int, error) {
	conditions := []string{"1 = 1"}
	var args []interface{}

	if filter.Query != "" {
		conditions = append(conditions, `(user_prompt LIKE ? ESCAPE '\' OR enhanced_prompt LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\')`)
		pattern := likePattern(filter.Query)
		args = append(args, pattern, pattern, pattern)
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}

	whereClause := strings.Join(conditions, " AND ")

	// Count
	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM generations WHERE %s", whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count generations: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, timestamp, user_prompt, enhanced_prompt, image_path, model_3d_path, model_format, tags, status, error
		FROM generations
		WHERE %s
		ORDER BY timestamp DESC
		LIMIT ? OFFSET ?
	`, whereClause)
	args = append(args, filter.Limit, filter.Offset)

	gens, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list generations: %w", err)
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
	result, err := r.db.ExecContext(ctx, `DELETE FROM generations`)
	if err != nil {
		return 0, fmt.Errorf("delete generations: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

func (r *generationRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *generationRepo) Close() error {
	return r.db.Close()
}

func (r *generationRepo) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Generation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gens := []*domain.Generation{}
	for rows.Next() {
		gen, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan generation row: %w", err)
		}
		gens = append(gens, gen)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generation rows: %w", err)
	}
	return gens, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanGeneration(row scanner) (*domain.Generation, error) {
	var (
		gen       domain.Generation
		id        string
		timestamp string
		status    string
	)
	err := row.Scan(
		&id, &timestamp, &gen.UserPrompt, &gen.EnhancedPrompt,
		&gen.ImagePath, &gen.ModelPath, &gen.ModelFormat, &gen.Tags,
		&status, &gen.Error,
	)
	if err != nil {
		return nil, err
	}

	if gen.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse generation id %q: %w", id, err)
	}
	if gen.CreatedAt, err = time.Parse(timeLayout, timestamp); err != nil {
		return nil, fmt.Errorf("parse generation timestamp %q: %w", timestamp, err)
	}
	gen.Status = domain.GenerationStatus(status)
	return &gen, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
