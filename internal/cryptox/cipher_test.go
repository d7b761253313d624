package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCipher(t *testing.T) *Cipher {
	t.Helper()
	key, err := LoadOrCreateKey(filepath.Join(t.TempDir(), "umob.key"))
	require.NoError(t, err)
	c, err := New(key)
	require.NoError(t, err)
	return c
}

func TestLoadOrCreateKey_CreatesThenLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "umob.key")

	key1, err := LoadOrCreateKey(path)
	require.NoError(t, err)
	require.Len(t, key1, KeySize)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// second call loads the same bytes instead of regenerating
	key2, err := LoadOrCreateKey(path)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
}

func TestLoadOrCreateKey_RejectsWrongLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "umob.key")
	require.NoError(t, os.WriteFile(path, []byte("short"), 0o600))

	_, err := LoadOrCreateKey(path)
	require.Error(t, err)
}

func TestCipher_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	cases := []string{
		"",
		"alice@example.com",
		"+31 6 12345678",
		"héllo wörld",
		"暗号化されたフィールド",
		"🛴" + strings.Repeat("é", 50), // combining marks
		"‮مرحبا",                       // RTL
		strings.Repeat("x", 100_000),
	}
	for _, plaintext := range cases {
		token, err := c.Encrypt(plaintext)
		require.NoError(t, err)

		got, err := c.Decrypt(token)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestCipher_NonDeterministic(t *testing.T) {
	c := newTestCipher(t)

	t1, err := c.Encrypt("serial-ABC123")
	require.NoError(t, err)
	t2, err := c.Encrypt("serial-ABC123")
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2, "two encryptions must use distinct nonces")

	p1, err := c.Decrypt(t1)
	require.NoError(t, err)
	p2, err := c.Decrypt(t2)
	require.NoError(t, err)
	assert.Equal(t, "serial-ABC123", p1)
	assert.Equal(t, "serial-ABC123", p2)
}

func TestCipher_CrossKeyFails(t *testing.T) {
	c1 := newTestCipher(t)
	c2 := newTestCipher(t)

	token, err := c1.Encrypt("secret")
	require.NoError(t, err)

	_, err = c2.Decrypt(token)
	require.ErrorIs(t, err, ErrDecryptFailed)
}

func TestCipher_MalformedTokens(t *testing.T) {
	c := newTestCipher(t)

	token, err := c.Encrypt("payload")
	require.NoError(t, err)

	flipped := []byte(token)
	if flipped[0] == 'A' {
		flipped[0] = 'B'
	} else {
		flipped[0] = 'A'
	}

	bad := []string{
		"",
		"not base64 !!!",
		"QQ",                 // too short for a nonce
		token[:len(token)-4], // truncated
		string(flipped),      // corrupted byte
		token + "AAAA",       // extended
	}
	for _, tok := range bad {
		_, err := c.Decrypt(tok)
		assert.ErrorIs(t, err, ErrDecryptFailed, "token %q", tok)
	}
}
