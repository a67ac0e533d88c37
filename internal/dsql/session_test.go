package dsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenProvider struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeTokenProvider) FetchToken(ctx context.Context, clusterID, region string) (string, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	return fmt.Sprintf("token-%d", f.calls), time.Now().Add(tokenLifetime), nil
}

func (f *fakeTokenProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// countingConnect opens a fresh sqlmock handle per call. Pings succeed by
// default because ping monitoring is off.
func countingConnect(t *testing.T, opened *int) ConnectFunc {
	t.Helper()
	return func(ctx context.Context, dsn string) (*sql.DB, error) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		mock.ExpectClose()
		*opened++
		return db, nil
	}
}

func TestConnSingleFlight(t *testing.T) {
	tokens := &fakeTokenProvider{}
	m := NewManager("cluster", "us-east-1", tokens)

	var opened int
	m.connect = countingConnect(t, &opened)

	var wg sync.WaitGroup
	handles := make([]*sql.DB, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := m.Conn(context.Background())
			assert.NoError(t, err)
			handles[i] = db
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, tokens.callCount(), "concurrent callers must share one refresh")
	assert.Equal(t, 1, opened)
	for _, db := range handles[1:] {
		assert.Same(t, handles[0], db, "all callers must receive the same handle")
	}
}

func TestConnReusesFreshHandle(t *testing.T) {
	tokens := &fakeTokenProvider{}
	m := NewManager("cluster", "us-east-1", tokens)

	var opened int
	m.connect = countingConnect(t, &opened)

	first, err := m.Conn(context.Background())
	require.NoError(t, err)

	second, err := m.Conn(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, tokens.callCount())
	assert.Equal(t, 1, opened)
}

func TestConnRefreshesExpiredToken(t *testing.T) {
	tokens := &fakeTokenProvider{}
	m := NewManager("cluster", "us-east-1", tokens)

	var opened int
	m.connect = countingConnect(t, &opened)

	now := time.Now()
	m.now = func() time.Time { return now }

	first, err := m.Conn(context.Background())
	require.NoError(t, err)

	// Jump past the reported expiry; the next call must refresh.
	now = now.Add(tokenLifetime + time.Minute)

	second, err := m.Conn(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, tokens.callCount())
	assert.Equal(t, 2, opened)
}

func TestConnRebuildsAfterFailedPing(t *testing.T) {
	tokens := &fakeTokenProvider{}
	m := NewManager("cluster", "us-east-1", tokens)

	var opened int
	var mocks []sqlmock.Sqlmock
	m.connect = func(ctx context.Context, dsn string) (*sql.DB, error) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		opened++
		mocks = append(mocks, mock)
		return db, nil
	}

	_, err := m.Conn(context.Background())
	require.NoError(t, err)

	// The cached handle now fails its health check; errors are swallowed and
	// the handle is rebuilt with a fresh token.
	mocks[0].ExpectPing().WillReturnError(errors.New("connection reset"))

	_, err = m.Conn(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, tokens.callCount())
	assert.Equal(t, 2, opened)
}

func TestConnPropagatesCredentialError(t *testing.T) {
	tokens := &fakeTokenProvider{err: fmt.Errorf("%w: denied", ErrCredentials)}
	m := NewManager("cluster", "us-east-1", tokens)
	m.connect = func(ctx context.Context, dsn string) (*sql.DB, error) {
		t.Fatal("connect must not run when the token fetch fails")
		return nil, nil
	}

	_, err := m.Conn(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCredentials)
}

func TestConnFailedConnectClearsState(t *testing.T) {
	tokens := &fakeTokenProvider{}
	m := NewManager("cluster", "us-east-1", tokens)

	attempts := 0
	m.connect = func(ctx context.Context, dsn string) (*sql.DB, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("dial timeout")
		}
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		return db, nil
	}

	_, err := m.Conn(context.Background())
	require.Error(t, err)

	// The failed attempt must not leave a cached token behind.
	db, err := m.Conn(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, db)
	assert.Equal(t, 2, tokens.callCount())
}

func TestDSNRequiresTLSAndEscapesToken(t *testing.T) {
	m := NewManager("kabob-prod", "us-east-1", &fakeTokenProvider{})

	dsn := m.dsn("to/ken+with=specials")

	assert.Contains(t, dsn, "kabob-prod.dsql.us-east-1.on.aws:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.Contains(t, dsn, "postgres://admin:")
	assert.NotContains(t, dsn, "to/ken+with=specials")
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "abc.dsql.eu-west-1.on.aws", Endpoint("abc", "eu-west-1"))
}

func TestCloseIsIdempotent(t *testing.T) {
	tokens := &fakeTokenProvider{}
	m := NewManager("cluster", "us-east-1", tokens)

	var opened int
	m.connect = countingConnect(t, &opened)

	_, err := m.Conn(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	// A fresh call after Close must reconnect.
	_, err = m.Conn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, opened)
}
