package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"

	"at_deals/pkg/logx"
)

type Postgres struct {
	value           *sqlx.DB
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	// ConnectAttempts bounds the initial ping loop; zero means one attempt.
	ConnectAttempts int
	init            sync.Once
	err             error
}

// Connect opens the pool once and pings until the database answers.
func (p *Postgres) Connect(ctx context.Context) (*sqlx.DB, error) {
	p.init.Do(func() {
		db, err := sqlx.Open("pgx", p.DSN)
		if err != nil {
			p.err = fmt.Errorf("sqlx.Open: %w", err)
			return
		}

		db.SetMaxOpenConns(p.MaxOpenConns)
		db.SetMaxIdleConns(p.MaxIdleConns)
		db.SetConnMaxLifetime(p.ConnMaxLifetime)

		if err := retry(ctx, p.ConnectAttempts, db.PingContext); err != nil {
			_ = db.Close()
			p.err = fmt.Errorf("postgres ping: %w", err)
			return
		}

		p.value = db

		logger(ctx).Info("postgres connected", slog.String("database", databaseName(p.DSN)))
	})

	return p.value, p.err
}

func (p *Postgres) Close(ctx context.Context) {
	if p.value == nil {
		return
	}

	if err := p.value.Close(); err != nil {
		logger(ctx).Error("postgresClient.Close", logx.Error(err))
	}

	logger(ctx).Info("postgres disconnected", slog.String("database", databaseName(p.DSN)))
}

func databaseName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Path == "" {
		return "unknown"
	}

	return u.Path
}
