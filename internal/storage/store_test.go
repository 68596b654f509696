package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"sqlite": func(t *testing.T) Store {
			s, err := Open(filepath.Join(t.TempDir(), "flashdeck.db"))
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			_, ok, err := s.Get(ctx, "rawdata")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, "rawdata", "=== Rodina\nmama = mother"))
			value, ok, err := s.Get(ctx, "rawdata")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "=== Rodina\nmama = mother", value)

			require.NoError(t, s.Set(ctx, "rawdata", ""))
			value, ok, err = s.Get(ctx, "rawdata")
			require.NoError(t, err)
			assert.True(t, ok, "an empty value is still stored")
			assert.Empty(t, value)

			_, ok, err = s.Get(ctx, "flashcards")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flashdeck.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "builtin-lessons", `["Farby"]`))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	value, ok, err := s.Get(ctx, "builtin-lessons")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["Farby"]`, value)
}

func TestSQLiteStore_Errors(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		run       func(s *SQLiteStore) error
	}{
		{
			name: "read fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT value FROM entries WHERE name = \\?").
					WithArgs("flashcards").
					WillReturnError(errors.New("disk I/O error"))
			},
			run: func(s *SQLiteStore) error {
				_, _, err := s.Get(context.Background(), "flashcards")
				return err
			},
		},
		{
			name: "write fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO entries").
					WithArgs("flashcards", "[]").
					WillReturnError(errors.New("database is locked"))
			},
			run: func(s *SQLiteStore) error {
				return s.Set(context.Background(), "flashcards", "[]")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			s := NewSQLiteStore(sqlx.NewDb(db, "sqlite"))
			tt.setupMock(mock)

			err = tt.run(s)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "flashcards")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
