package auth

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/urbanmobility/umob/internal/common"
	"github.com/urbanmobility/umob/internal/cryptox"
	"github.com/urbanmobility/umob/internal/models"
	"github.com/urbanmobility/umob/internal/repositories/users"
)

// suspiciousAttemptThreshold flags repeated failed logins in the audit trail.
const suspiciousAttemptThreshold = 3

// ActivityRecorder is the audit sink the session reports logins to.
// internal/audit.FileLog satisfies it.
type ActivityRecorder interface {
	Record(ctx context.Context, username, action, details string, suspicious bool)
}

// Session tracks the currently authenticated user. It is constructed once at
// process start and shared; capability checks always go through the live
// session so a logout/login immediately changes the outcome of the next call.
type Session struct {
	repo     users.Repository
	cipher   *cryptox.Cipher
	recorder ActivityRecorder

	mu             sync.Mutex
	current        *models.User
	failedAttempts map[string]int
}

func NewSession(repo users.Repository, cipher *cryptox.Cipher, recorder ActivityRecorder) *Session {
	return &Session{
		repo:           repo,
		cipher:         cipher,
		recorder:       recorder,
		failedAttempts: make(map[string]int),
	}
}

// Login authenticates by username (case-insensitive) and password. Usernames
// are stored encrypted, so the lookup decrypts each candidate row rather than
// filtering in SQL. Returns common.ErrNotAuthenticated on any mismatch; the
// caller cannot distinguish unknown users from wrong passwords.
func (s *Session) Login(ctx context.Context, username, password string) error {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}

	var match *models.User
	for i := range all {
		u := &all[i]
		if !u.IsActive || u.UsernameEncrypted == "" {
			continue
		}
		name, err := s.cipher.Decrypt(u.UsernameEncrypted)
		if err != nil {
			// One corrupted row must not block other logins.
			continue
		}
		if strings.EqualFold(name, username) {
			match = u
			break
		}
	}

	if match == nil || bcrypt.CompareHashAndPassword([]byte(match.PasswordHash), []byte(password)) != nil {
		s.recordFailedAttempt(ctx, username)
		return common.ErrNotAuthenticated
	}

	s.mu.Lock()
	delete(s.failedAttempts, strings.ToLower(username))
	s.current = match
	s.mu.Unlock()

	s.recorder.Record(ctx, username, "Logged in", "", false)
	return nil
}

func (s *Session) recordFailedAttempt(ctx context.Context, username string) {
	s.mu.Lock()
	key := strings.ToLower(username)
	s.failedAttempts[key]++
	count := s.failedAttempts[key]
	s.mu.Unlock()

	s.recorder.Record(ctx, username, "Failed login attempt",
		"attempt count: "+strconv.Itoa(count), count >= suspiciousAttemptThreshold)
}

// Logout clears the current user.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	u := s.current
	s.current = nil
	s.mu.Unlock()

	if u != nil {
		name, err := s.cipher.Decrypt(u.UsernameEncrypted)
		if err != nil {
			name = "[unknown]"
		}
		s.recorder.Record(ctx, name, "Logged out", "", false)
	}
}

// CurrentUser returns the logged-in user, or nil.
func (s *Session) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentUsername returns the decrypted name of the logged-in user, or "".
func (s *Session) CurrentUsername() string {
	u := s.CurrentUser()
	if u == nil {
		return ""
	}
	name, err := s.cipher.Decrypt(u.UsernameEncrypted)
	if err != nil {
		return "[unknown]"
	}
	return name
}

// Role returns the current user's role and true, or false when logged out.
func (s *Session) Role() (Role, bool) {
	u := s.CurrentUser()
	if u == nil {
		return "", false
	}
	r, err := ParseRole(u.Role)
	if err != nil {
		return "", false
	}
	return r, true
}

// HasCapability re-derives the capability from the current role. This is the
// single authorization query every privileged operation goes through.
func (s *Session) HasCapability(c Capability) bool {
	r, ok := s.Role()
	if !ok {
		return false
	}
	return r.Has(c)
}

// VerifyPassword re-checks the current user's password (used before
// password changes).
func (s *Session) VerifyPassword(password string) bool {
	u := s.CurrentUser()
	if u == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsLoggedIn reports whether a user is authenticated.
func (s *Session) IsLoggedIn() bool {
	return s.CurrentUser() != nil
}
