package backup

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/urbanmobility/umob/internal/common"
)

const (
	codeLength   = 12
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Code is a single-use authorization to restore one specific archive.
// Any system administrator holding the code value may present it.
type Code struct {
	Value      string
	BackupFile string
	CreatedAt  time.Time
	CreatedBy  string
	Used       bool
}

// Registry holds restore codes in memory. Codes do not survive a process
// restart; a super admin mints fresh ones as needed. All operations are
// safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	codes map[string]Code
}

func NewRegistry() *Registry {
	return &Registry{codes: make(map[string]Code)}
}

// Generate mints a new code for the given archive, recording who minted it.
// Codes for the same or different archives coexist; the value is regenerated
// until it is unique among the stored codes.
func (r *Registry) Generate(backupFile, createdBy string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		value, err := randomCode()
		if err != nil {
			return "", err
		}
		if _, exists := r.codes[value]; exists {
			continue
		}
		r.codes[value] = Code{
			Value:      value,
			BackupFile: backupFile,
			CreatedAt:  time.Now(),
			CreatedBy:  createdBy,
		}
		return value, nil
	}
}

// Validate reports whether the code exists, is unspent and was minted for
// the named archive, without spending it.
func (r *Registry) Validate(value, backupFile string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[value]
	return ok && !c.Used && c.BackupFile == backupFile
}

// Consume validates the code against the archive and, if it matches, marks
// it used in the same critical section. A code can therefore authorize at
// most one restore, even under concurrent attempts.
func (r *Registry) Consume(value, backupFile string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.codes[value]
	if !ok || c.Used || c.BackupFile != backupFile {
		return fmt.Errorf("%w: restore code is not valid for this backup", common.ErrPermissionDenied)
	}
	c.Used = true
	r.codes[value] = c
	return nil
}

// Revoke removes the code if present. Revoking an unknown or spent code is
// not an error.
func (r *Registry) Revoke(value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, value)
}

// List returns a snapshot of the stored codes, spent ones included, oldest
// first.
func (r *Registry) List() []Code {
	r.mu.Lock()
	defer r.mu.Unlock()

	codes := make([]Code, 0, len(r.codes))
	for _, c := range r.codes {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		if !codes[i].CreatedAt.Equal(codes[j].CreatedAt) {
			return codes[i].CreatedAt.Before(codes[j].CreatedAt)
		}
		return codes[i].Value < codes[j].Value
	})
	return codes
}

// randomCode is a variable so tests can force value collisions.
var randomCode = func() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate restore code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
