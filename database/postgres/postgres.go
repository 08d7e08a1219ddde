package postgres

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

const schema = `
	CREATE TABLE IF NOT EXISTS monitoring_sessions (
		id               TEXT PRIMARY KEY,
		session_id       TEXT NOT NULL,
		timestamp        TIMESTAMPTZ NOT NULL,
		drowsiness_score DOUBLE PRECISION NOT NULL,
		stress_level     DOUBLE PRECISION NOT NULL,
		faces_detected   INT NOT NULL DEFAULT 0,
		drowsiness_level TEXT NOT NULL DEFAULT '',
		stress_category  TEXT NOT NULL DEFAULT '',
		details          JSONB NOT NULL DEFAULT '{}'::jsonb
	);
	CREATE INDEX IF NOT EXISTS monitoring_sessions_timestamp_idx ON monitoring_sessions (timestamp);
	CREATE INDEX IF NOT EXISTS monitoring_sessions_session_id_idx ON monitoring_sessions (session_id);

	CREATE TABLE IF NOT EXISTS steering_analyses (
		id                TEXT PRIMARY KEY,
		fatigue_indicator DOUBLE PRECISION NOT NULL,
		pattern           TEXT NOT NULL,
		variability       DOUBLE PRECISION NOT NULL,
		correction_rate   DOUBLE PRECISION NOT NULL,
		sample_count      INT NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL
	);
`

func (c Config) FormatDSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%s", c.Host, c.Port),
		Path:     c.Name,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return u.String()
}

func New(cfg Config) (*sqlx.DB, error) {
	return Open(cfg.FormatDSN())
}

// Open connects with the given DSN and creates missing tables.
func Open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}
	return nil
}
