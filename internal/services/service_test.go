package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/urbanmobility/umob/internal/auth"
	"github.com/urbanmobility/umob/internal/cryptox"
	"github.com/urbanmobility/umob/internal/logging"
	"github.com/urbanmobility/umob/internal/storage"
)

// fakeSession plays one user with a fixed role.
type fakeSession struct {
	username string
	role     auth.Role
	loggedIn bool
}

func (f *fakeSession) CurrentUsername() string { return f.username }

func (f *fakeSession) HasCapability(c auth.Capability) bool {
	return f.loggedIn && f.role.Has(c)
}

type recordedEvent struct {
	Username   string
	Action     string
	Details    string
	Suspicious bool
}

type fakeRecorder struct {
	events []recordedEvent
}

func (f *fakeRecorder) Record(_ context.Context, username, action, details string, suspicious bool) {
	f.events = append(f.events, recordedEvent{username, action, details, suspicious})
}

func testCipher(t *testing.T) *cryptox.Cipher {
	t.Helper()
	key := make([]byte, cryptox.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	cipher, err := cryptox.New(key)
	require.NoError(t, err)
	return cipher
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
