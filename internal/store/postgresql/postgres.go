package postgresql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // nolint: revive // required for pgx driver
	"go.opentelemetry.io/otel/attribute"

	"github.com/chainsink/geyser-sink/internal/store"
)

const (
	postgresDriverName = "pgx"
	pingTimeout        = 5 * time.Second
)

type PostgreSQL struct {
	mu           sync.RWMutex
	db           *sql.DB
	dbInfo       string
	idleConns    int
	maxOpenConns int
	connected    atomic.Bool

	now               func() time.Time
	tracingEnabled    bool
	tracingAttributes []attribute.KeyValue
}

func WithNow(nowFunc func() time.Time) func(*PostgreSQL) {
	return func(p *PostgreSQL) {
		p.now = nowFunc
	}
}

func WithTracer(attr ...attribute.KeyValue) func(s *PostgreSQL) {
	_, file, _, ok := runtime.Caller(1)

	return func(p *PostgreSQL) {
		p.tracingEnabled = true
		if len(attr) > 0 {
			p.tracingAttributes = append(p.tracingAttributes, attr...)
		}
		if ok {
			p.tracingAttributes = append(p.tracingAttributes, attribute.String("file", file))
		}
	}
}

// New opens the connection pool. A database which is not reachable yet is not an error, the store
// reports itself as disconnected and is expected to be reconnected by the caller.
func New(dbInfo string, idleConns int, maxOpenConns int, opts ...func(postgreSQL *PostgreSQL)) (*PostgreSQL, error) {
	p := &PostgreSQL{
		dbInfo:       dbInfo,
		idleConns:    idleConns,
		maxOpenConns: maxOpenConns,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	db, err := p.open()
	if err != nil {
		return nil, errors.Join(store.ErrFailedToOpenDB, err)
	}
	p.db = db

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	p.connected.Store(db.PingContext(ctx) == nil)

	return p, nil
}

func (p *PostgreSQL) open() (*sql.DB, error) {
	db, err := sql.Open(postgresDriverName, p.dbInfo)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(p.idleConns)
	db.SetMaxOpenConns(p.maxOpenConns)

	return db, nil
}

func (p *PostgreSQL) getDB() *sql.DB {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.db
}

func (p *PostgreSQL) IsConnected() bool {
	return p.connected.Load()
}

// Reconnect replaces the connection pool with a new one once the database answers a ping.
func (p *PostgreSQL) Reconnect(ctx context.Context) error {
	db, err := p.open()
	if err != nil {
		return errors.Join(store.ErrFailedToReconnect, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	err = db.PingContext(pingCtx)
	if err != nil {
		_ = db.Close()
		return errors.Join(store.ErrFailedToReconnect, err)
	}

	p.mu.Lock()
	old := p.db
	p.db = db
	p.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}

	p.connected.Store(true)

	return nil
}

func (p *PostgreSQL) Ping(ctx context.Context) error {
	err := p.getDB().PingContext(ctx)
	if err != nil {
		p.checkConnection(err)
		return err
	}

	p.connected.Store(true)

	return nil
}

func (p *PostgreSQL) Close() error {
	p.connected.Store(false)

	return p.getDB().Close()
}

// exec prepares the statement and executes it with positional arguments.
func (p *PostgreSQL) exec(ctx context.Context, query string, args ...any) error {
	stmt, err := p.getDB().PrepareContext(ctx, query)
	if err != nil {
		p.checkConnection(err)
		return errors.Join(store.ErrFailedToPrepare, err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, args...)
	if err != nil {
		p.checkConnection(err)
		return errors.Join(store.ErrFailedToExecute, err)
	}

	return nil
}

func (p *PostgreSQL) checkConnection(err error) {
	if isConnectionError(err) {
		p.connected.Store(false)
	}
}

func isConnectionError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, net.ErrClosed) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 08: connection exception, 57P01-57P03: server shutting down
		return strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "57P01" || pgErr.Code == "57P02" || pgErr.Code == "57P03"
	}

	return pgconn.SafeToRetry(err)
}
