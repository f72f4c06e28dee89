package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domaingames "github.com/preston-bernstein/game-catalog-service/internal/domain/games"
)

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "postgres://games:xxxxx@db:5432/catalog?sslmode=disable",
		MaskDSN("postgres://games:secret@db:5432/catalog?sslmode=disable"))
	assert.Equal(t, "postgres://db:5432/catalog", MaskDSN("postgres://db:5432/catalog"))
	assert.Equal(t, ":memory:", MaskDSN(":memory:"))
}

func TestSQLiteDSN(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		memory bool
	}{
		{"", ":memory:?_pragma=foreign_keys(1)", true},
		{":memory:", ":memory:?_pragma=foreign_keys(1)", true},
		{"sqlite:///var/lib/games.db", "file:var/lib/games.db?_pragma=foreign_keys(1)", false},
		{"file:games.db?cache=shared", "file:games.db?cache=shared&_pragma=foreign_keys(1)", false},
		{"file::memory:?mode=memory", "file::memory:?mode=memory&_pragma=foreign_keys(1)", true},
		{"file:games.db?_pragma=foreign_keys(0)", "file:games.db?_pragma=foreign_keys(0)", false},
	}
	for _, tc := range cases {
		got, memory := sqliteDSN(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.memory, memory, tc.in)
	}
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, isPostgres("postgres://db/catalog"))
	assert.True(t, isPostgres("postgresql://db/catalog"))
	assert.False(t, isPostgres("file:games.db"))
}

func TestOpenEnforcesForeignKeysOnEveryConnection(t *testing.T) {
	ctx := context.Background()
	db, err := Open(Config{DSN: "sqlite:///" + filepath.Join(t.TempDir(), "games.db"), MaxOpenConns: 4}, nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	first, err := sqlDB.Conn(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := sqlDB.Conn(ctx)
	require.NoError(t, err)
	defer second.Close()

	for _, conn := range []*sql.Conn{first, second} {
		var enabled int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled))
		assert.Equal(t, 1, enabled)
	}

	_, err = second.ExecContext(ctx, "INSERT INTO game_screenshots (game_id, url) VALUES (?, ?)", "missing", "https://media.rawg.io/x.jpg")
	assert.Error(t, err)
}

func TestOpenRoutesSQLThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	db, err := Open(Config{DSN: ":memory:", LogSQL: true}, logger)
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db))
	s := NewGormStore(db)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.CountGames(context.Background(), domaingames.ListFilter{})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "database opened")
	assert.Contains(t, out, "msg=sql")
	assert.Contains(t, out, "SELECT count(*)")
}

func TestSQLLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := context.Background()

	quiet := newSQLLogger(logger, false)
	quiet.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Empty(t, buf.String())

	quiet.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 2", 0 }, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	quiet.Trace(ctx, time.Now(), func() (string, int64) { return "INSERT x", 0 }, errors.New("disk full"))
	assert.Contains(t, buf.String(), "sql failed")
	assert.Contains(t, buf.String(), "disk full")

	buf.Reset()
	quiet.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), func() (string, int64) { return "INSERT x", 0 }, errors.New("disk full"))
	assert.Empty(t, buf.String())

	assert.Equal(t, gormlogger.Discard, newSQLLogger(nil, true))
}
