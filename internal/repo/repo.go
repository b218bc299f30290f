package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrUserExists = errors.New("user already exists")
)

const uniqueViolation = "23505"

type UserRepository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)
}

type RunRepository interface {
	SaveRun(ctx context.Context, userID int, kind string, request, response []byte) (string, error)
	ListRuns(ctx context.Context, userID int, limit int) ([]Run, error)
	GetRun(ctx context.Context, userID int, id string) (Run, error)
}

type Repository interface {
	UserRepository
	RunRepository
}

// Run is one saved calculation request and its result.
type Run struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
	Request   json.RawMessage `json:"request,omitempty"`
	Response  json.RawMessage `json:"response"`
}

type PostgresRepository struct {
	db  *sql.DB
	log *zap.Logger
}

func NewPostgresRepository(db *sql.DB, log *zap.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, log: log}
}

// Open connects to Postgres. sslmode=require is added when the URL does not set it.
func Open(ctx context.Context, connStr string) (*sql.DB, error) {
	if connStr == "" {
		connStr = "user=postgres dbname=postgres password=password sslmode=disable"
	}
	if !strings.Contains(connStr, "sslmode=") {
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			if strings.Contains(connStr, "?") {
				connStr += "&sslmode=require"
			} else {
				connStr += "?sslmode=require"
			}
		} else {
			connStr += " sslmode=require"
		}
	}
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	login TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL,
	password TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS calc_runs (
	id UUID PRIMARY KEY,
	user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	kind TEXT NOT NULL,
	request JSONB NOT NULL,
	response JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS calc_runs_user_created ON calc_runs (user_id, created_at DESC);
`

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, ErrUserExists
		}
		return 0, err
	}
	return id, nil
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"
	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", ErrNotFound
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) SaveRun(ctx context.Context, userID int, kind string, request, response []byte) (string, error) {
	id := uuid.New().String()
	query := "INSERT INTO calc_runs (id, user_id, kind, request, response) VALUES ($1, $2, $3, $4, $5)"
	if _, err := r.db.ExecContext(ctx, query, id, userID, kind, string(request), string(response)); err != nil {
		return "", err
	}
	r.log.Debug("run saved", zap.String("run_id", id), zap.Int("user_id", userID), zap.String("kind", kind))
	return id, nil
}

func (r *PostgresRepository) ListRuns(ctx context.Context, userID int, limit int) ([]Run, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := "SELECT id, kind, created_at, response FROM calc_runs WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2"
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		var response []byte
		if err := rows.Scan(&run.ID, &run.Kind, &run.CreatedAt, &response); err != nil {
			return nil, err
		}
		run.Response = response
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *PostgresRepository) GetRun(ctx context.Context, userID int, id string) (Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Run{}, ErrNotFound
	}
	query := "SELECT id, kind, created_at, request, response FROM calc_runs WHERE user_id=$1 AND id=$2"
	var run Run
	var request, response []byte
	err := r.db.QueryRowContext(ctx, query, userID, id).Scan(&run.ID, &run.Kind, &run.CreatedAt, &request, &response)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, err
	}
	run.Request, run.Response = request, response
	return run, nil
}
