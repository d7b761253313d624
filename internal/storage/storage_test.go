package storage

import (
	"context"
	"crypto/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/urbanmobility/umob/internal/cryptox"
)

func testCipher(t *testing.T) *cryptox.Cipher {
	t.Helper()
	key := make([]byte, cryptox.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	cipher, err := cryptox.New(key)
	require.NoError(t, err)
	return cipher
}

func TestOpen_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	for _, table := range ManagedTables {
		var n int
		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
		require.NoError(t, err, table)
		assert.Zero(t, n, table)
	}
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `
		INSERT INTO travelers (customer_id, first_name, last_name, birthday, gender, street_name,
			house_number, zip_code, city, email, mobile_phone, driving_license, registration_date)
		VALUES ('CUST000001', 'Bob', 'Jones', '01-02-1990', 'male', 'Coolsingel',
			'12', '3011AB', 'Rotterdam', 'tok', 'tok', 'tok', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Migrations are idempotent and data survives a reopen.
	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM travelers`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestEnsureSuperAdmin_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	cipher := testCipher(t)

	require.NoError(t, EnsureSuperAdmin(ctx, db, cipher))
	require.NoError(t, EnsureSuperAdmin(ctx, db, cipher))

	var count int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = 'super_admin'`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestEnsureSuperAdmin_StoresNoPlaintext(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	cipher := testCipher(t)

	require.NoError(t, EnsureSuperAdmin(ctx, db, cipher))

	var username, encrypted, hash string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT username, username_encrypted, password_hash FROM users WHERE role = 'super_admin'`).
		Scan(&username, &encrypted, &hash))

	assert.NotEqual(t, SuperAdminUsername, username)
	name, err := cipher.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, SuperAdminUsername, name)

	// The default password is bcrypt-hashed, never stored.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("Admin_123?")))
}
