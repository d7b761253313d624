package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanmobility/umob/internal/common"
)

func TestRegistry_Generate(t *testing.T) {
	r := NewRegistry()

	code, err := r.Generate("backup_20260101_120000.zip", "super_admin")
	require.NoError(t, err)
	assert.Len(t, code, codeLength)
	for _, c := range code {
		assert.Contains(t, codeAlphabet, string(c))
	}

	codes := r.List()
	require.Len(t, codes, 1)
	assert.Equal(t, "backup_20260101_120000.zip", codes[0].BackupFile)
	assert.Equal(t, "super_admin", codes[0].CreatedBy)
	assert.False(t, codes[0].CreatedAt.IsZero())
	assert.False(t, codes[0].Used)
}

func TestRegistry_CodesCoexist(t *testing.T) {
	r := NewRegistry()

	first, err := r.Generate("backup_a.zip", "super_admin")
	require.NoError(t, err)
	second, err := r.Generate("backup_b.zip", "super_admin")
	require.NoError(t, err)
	third, err := r.Generate("backup_a.zip", "super_admin")
	require.NoError(t, err)

	require.Len(t, r.List(), 3)
	assert.True(t, r.Validate(first, "backup_a.zip"))
	assert.True(t, r.Validate(second, "backup_b.zip"))
	assert.True(t, r.Validate(third, "backup_a.zip"))
}

func TestRegistry_GenerateRetriesOnCollision(t *testing.T) {
	orig := randomCode
	t.Cleanup(func() { randomCode = orig })

	values := []string{"AAAAAAAAAAAA", "AAAAAAAAAAAA", "BBBBBBBBBBBB"}
	randomCode = func() (string, error) {
		v := values[0]
		values = values[1:]
		return v, nil
	}

	r := NewRegistry()
	first, err := r.Generate("backup_a.zip", "super_admin")
	require.NoError(t, err)
	second, err := r.Generate("backup_a.zip", "super_admin")
	require.NoError(t, err)

	assert.Equal(t, "AAAAAAAAAAAA", first)
	assert.Equal(t, "BBBBBBBBBBBB", second)
	require.Len(t, r.List(), 2)
}

func TestRegistry_ConsumeSingleUse(t *testing.T) {
	r := NewRegistry()
	code, err := r.Generate("backup_a.zip", "super_admin")
	require.NoError(t, err)

	require.NoError(t, r.Consume(code, "backup_a.zip"))
	assert.ErrorIs(t, r.Consume(code, "backup_a.zip"), common.ErrPermissionDenied)

	// The spent code stays listed, marked used.
	codes := r.List()
	require.Len(t, codes, 1)
	assert.True(t, codes[0].Used)
}

func TestRegistry_ConsumeMismatch(t *testing.T) {
	r := NewRegistry()
	code, err := r.Generate("backup_a.zip", "super_admin")
	require.NoError(t, err)

	assert.ErrorIs(t, r.Consume(code, "backup_b.zip"), common.ErrPermissionDenied)
	assert.ErrorIs(t, r.Consume("WRONGCODE123", "backup_a.zip"), common.ErrPermissionDenied)

	// Mismatched attempts must not spend the code.
	require.NoError(t, r.Consume(code, "backup_a.zip"))
}

func TestRegistry_ValidateDoesNotSpend(t *testing.T) {
	r := NewRegistry()
	code, err := r.Generate("backup_a.zip", "super_admin")
	require.NoError(t, err)

	assert.True(t, r.Validate(code, "backup_a.zip"))
	assert.True(t, r.Validate(code, "backup_a.zip"))
	assert.False(t, r.Validate(code, "backup_b.zip"))
	assert.False(t, r.Validate("WRONGCODE123", "backup_a.zip"))

	require.NoError(t, r.Consume(code, "backup_a.zip"))
	assert.False(t, r.Validate(code, "backup_a.zip"))
}

func TestRegistry_Revoke(t *testing.T) {
	r := NewRegistry()
	code, err := r.Generate("backup_a.zip", "super_admin")
	require.NoError(t, err)

	r.Revoke(code)
	assert.Empty(t, r.List())
	assert.ErrorIs(t, r.Consume(code, "backup_a.zip"), common.ErrPermissionDenied)

	r.Revoke(code)
	r.Revoke("NEVERISSUED1")
}

func TestRegistry_ListOrdered(t *testing.T) {
	r := NewRegistry()
	first, err := r.Generate("backup_a.zip", "super_admin")
	require.NoError(t, err)
	second, err := r.Generate("backup_b.zip", "super_admin")
	require.NoError(t, err)

	codes := r.List()
	require.Len(t, codes, 2)
	// Same-instant mints fall back to value order; otherwise oldest first.
	if codes[0].CreatedAt.Equal(codes[1].CreatedAt) {
		assert.Less(t, codes[0].Value, codes[1].Value)
	} else {
		assert.Equal(t, first, codes[0].Value)
		assert.Equal(t, second, codes[1].Value)
	}
}
