package dsql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"time"

	_ "github.com/lib/pq"

	"github.com/RDarrylR/dsql-kabob-store/internal/logger"
)

// ConnectFunc opens a database handle for the given DSN.
type ConnectFunc func(ctx context.Context, dsn string) (*sql.DB, error)

// Manager owns the shared database handle and the auth token that unlocks it.
// Other components borrow the handle for one unit of work via Conn and must
// not cache it. Refresh is lazy: there is no background timer, but no caller
// ever receives a handle opened with an expired token.
type Manager struct {
	clusterID string
	region    string
	tokens    TokenProvider
	connect   ConnectFunc
	now       func() time.Time

	mu        sync.Mutex
	db        *sql.DB
	token     string
	expiresAt time.Time
}

func NewManager(clusterID, region string, tokens TokenProvider) *Manager {
	return &Manager{
		clusterID: clusterID,
		region:    region,
		tokens:    tokens,
		connect:   defaultConnect,
		now:       time.Now,
	}
}

// Conn returns a live database handle, fetching a fresh token and rebuilding
// the handle when the cached one is stale. The mutex makes refresh
// single-flight: concurrent callers block and reuse the refreshed handle
// rather than triggering duplicate token fetches or connections.
func (m *Manager) Conn(ctx context.Context) (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.stale(ctx) {
		return m.db, nil
	}

	logger.Info("refreshing dsql token and connection", map[string]any{
		"cluster": m.clusterID,
		"region":  m.region,
	})

	token, expiresAt, err := m.tokens.FetchToken(ctx, m.clusterID, m.region)
	if err != nil {
		return nil, err
	}

	if m.db != nil {
		_ = m.db.Close()
		m.db = nil
	}

	db, err := m.connect(ctx, m.dsn(token))
	if err != nil {
		m.token = ""
		return nil, fmt.Errorf("dsql: connect to %s: %w", Endpoint(m.clusterID, m.region), err)
	}

	m.db = db
	m.token = token
	m.expiresAt = expiresAt

	logger.Info("dsql connection ready", map[string]any{
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})

	return m.db, nil
}

// stale decides whether the cached token/handle pair can still be used.
// Health-check errors are swallowed; a failed ping forces a rebuild.
func (m *Manager) stale(ctx context.Context) bool {
	if m.token == "" || m.db == nil || !m.now().Before(m.expiresAt) {
		return true
	}
	if err := m.db.PingContext(ctx); err != nil {
		logger.Warn("database handle failed health check", map[string]any{
			"error": err.Error(),
		})
		return true
	}
	return false
}

// Close tears down the current handle. Safe to call with none open.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	m.token = ""
	return err
}

// dsn builds the connection string. The token is the password; the database
// and user names are fixed by DSQL, and the channel requires TLS.
func (m *Manager) dsn(token string) string {
	return fmt.Sprintf(
		"postgres://admin:%s@%s:5432/postgres?sslmode=require",
		url.QueryEscape(token),
		Endpoint(m.clusterID, m.region),
	)
}

func defaultConnect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
