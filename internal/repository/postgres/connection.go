package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/SamannyoPal/Circulate/database"
	"github.com/SamannyoPal/Circulate/internal/model"
)

// Connection wraps the shared *sql.DB pool handed to every repository.
type Connection struct {
	*sql.DB
}

// NewConnection opens a pgx-backed connection pool, verifies it and applies
// pending schema migrations.
func NewConnection(ctx context.Context, dsn string) (*Connection, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Connection{
		DB: db,
	}, nil
}

func (c *Connection) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

func (c *Connection) Ping(ctx context.Context) error {
	if c.DB == nil {
		return fmt.Errorf("connection pool is nil")
	}
	return c.DB.PingContext(ctx)
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func (c *Connection) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(tx)
	return err
}

// isUniqueViolation reports whether err is a postgres unique-constraint
// error (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// storeErr wraps a driver error, collapsing transient failures into
// model.ErrUnavailable so callers can decide to retry.
func storeErr(op string, err error) error {
	if errors.Is(err, driver.ErrBadConn) || pgconn.Timeout(err) {
		return fmt.Errorf("%s: %w", op, model.ErrUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
