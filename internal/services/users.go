package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urbanmobility/umob/internal/auth"
	"github.com/urbanmobility/umob/internal/common"
	"github.com/urbanmobility/umob/internal/cryptox"
	"github.com/urbanmobility/umob/internal/logging"
	"github.com/urbanmobility/umob/internal/models"
	"github.com/urbanmobility/umob/internal/repositories/users"
	"github.com/urbanmobility/umob/internal/validation"
)

// UserView is a system account with the username decrypted for display.
type UserView struct {
	ID          int64
	Username    string
	Role        auth.Role
	FirstName   string
	LastName    string
	CreatedDate string
	IsActive    bool
}

// UserService manages system accounts. Super admin accounts are built in
// and can neither be created nor deleted here.
type UserService struct {
	repo     users.Repository
	cipher   *cryptox.Cipher
	session  *auth.Session
	recorder Recorder
	log      logging.Logger
}

func NewUserService(repo users.Repository, cipher *cryptox.Cipher,
	session *auth.Session, recorder Recorder, log logging.Logger) *UserService {
	return &UserService{repo: repo, cipher: cipher, session: session, recorder: recorder, log: log}
}

// Create adds a new system admin or service engineer account.
func (s *UserService) Create(ctx context.Context, username, password string, role auth.Role, firstName, lastName string) error {
	if err := s.requireManage(role); err != nil {
		return err
	}
	if err := validation.Username(username); err != nil {
		return err
	}
	if err := validation.Password(password); err != nil {
		return err
	}
	if err := validation.PersonName("first name", firstName); err != nil {
		return err
	}
	if err := validation.PersonName("last name", lastName); err != nil {
		return err
	}

	if _, err := s.findByUsername(ctx, username); err == nil {
		return fmt.Errorf("%w: username %s", common.ErrAlreadyExists, username)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	encUsername, err := s.cipher.Encrypt(username)
	if err != nil {
		return fmt.Errorf("failed to encrypt username: %w", err)
	}

	var createdBy *int64
	if current := s.session.CurrentUser(); current != nil {
		id := current.ID
		createdBy = &id
	}
	u := &models.User{
		Username:          encUsername,
		UsernameEncrypted: encUsername,
		PasswordHash:      hash,
		Role:              string(role),
		FirstName:         firstName,
		LastName:          lastName,
		CreatedDate:       time.Now().Format(time.RFC3339),
		CreatedBy:         createdBy,
		IsActive:          true,
	}
	if _, err := s.repo.Create(ctx, u); err != nil {
		return err
	}

	s.log.Info(ctx, "user created", "role", role)
	s.recorder.Record(ctx, s.session.CurrentUsername(), "create_user",
		fmt.Sprintf("%s (%s)", username, role.Display()), false)
	return nil
}

// List returns all accounts with usernames decrypted.
func (s *UserService) List(ctx context.Context) ([]UserView, error) {
	if !s.session.HasCapability(auth.CapManageSystemAdmins) &&
		!s.session.HasCapability(auth.CapManageServiceEngineers) {
		return nil, fmt.Errorf("%w: list users", common.ErrPermissionDenied)
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]UserView, 0, len(all))
	for i := range all {
		views = append(views, s.view(&all[i]))
	}
	return views, nil
}

// UpdateProfile changes an account's first and last name.
func (s *UserService) UpdateProfile(ctx context.Context, username, firstName, lastName string) error {
	u, role, err := s.lookupManaged(ctx, username)
	if err != nil {
		return err
	}
	if err := validation.PersonName("first name", firstName); err != nil {
		return err
	}
	if err := validation.PersonName("last name", lastName); err != nil {
		return err
	}

	if err := s.repo.UpdateProfile(ctx, u.ID, firstName, lastName); err != nil {
		return err
	}
	s.recorder.Record(ctx, s.session.CurrentUsername(), "update_user",
		fmt.Sprintf("%s (%s)", username, role.Display()), false)
	return nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, username string) error {
	u, role, err := s.lookupManaged(ctx, username)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, u.ID); err != nil {
		return err
	}
	s.recorder.Record(ctx, s.session.CurrentUsername(), "delete_user",
		fmt.Sprintf("%s (%s)", username, role.Display()), false)
	return nil
}

// ResetPassword sets a generated temporary password on the account and
// returns it for handover.
func (s *UserService) ResetPassword(ctx context.Context, username string) (string, error) {
	if err := requireCapability(s.session, auth.CapResetUserPasswords); err != nil {
		return "", err
	}
	u, role, err := s.lookupManaged(ctx, username)
	if err != nil {
		return "", err
	}

	temp, err := auth.GenerateTempPassword()
	if err != nil {
		return "", err
	}
	hash, err := auth.HashPassword(temp)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return "", err
	}

	s.recorder.Record(ctx, s.session.CurrentUsername(), "reset_password",
		fmt.Sprintf("%s (%s)", username, role.Display()), false)
	return temp, nil
}

// UpdateOwnPassword lets the logged-in user change their own password after
// proving the current one.
func (s *UserService) UpdateOwnPassword(ctx context.Context, currentPassword, newPassword string) error {
	if err := requireCapability(s.session, auth.CapUpdateOwnPassword); err != nil {
		return err
	}
	if !s.session.VerifyPassword(currentPassword) {
		return fmt.Errorf("%w: current password is incorrect", common.ErrNotAuthenticated)
	}
	if err := validation.Password(newPassword); err != nil {
		return err
	}

	current := s.session.CurrentUser()
	if current == nil {
		return common.ErrNotAuthenticated
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePasswordHash(ctx, current.ID, hash); err != nil {
		return err
	}

	s.recorder.Record(ctx, s.session.CurrentUsername(), "update_own_password", "", false)
	return nil
}

// lookupManaged finds the account by plaintext username and checks the
// caller may manage accounts of its role.
func (s *UserService) lookupManaged(ctx context.Context, username string) (*models.User, auth.Role, error) {
	u, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	role, err := auth.ParseRole(u.Role)
	if err != nil {
		return nil, "", err
	}
	if err := s.requireManage(role); err != nil {
		return nil, "", err
	}
	return u, role, nil
}

func (s *UserService) requireManage(role auth.Role) error {
	switch role {
	case auth.RoleSystemAdmin:
		return requireCapability(s.session, auth.CapManageSystemAdmins)
	case auth.RoleServiceEngineer:
		return requireCapability(s.session, auth.CapManageServiceEngineers)
	default:
		return fmt.Errorf("%w: %s accounts are built in", common.ErrPermissionDenied, role.Display())
	}
}

// findByUsername decrypts each stored username and compares
// case-insensitively. Tokens are randomized, so there is no way to match in
// SQL.
func (s *UserService) findByUsername(ctx context.Context, username string) (*models.User, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(username)
	for i := range all {
		name, err := s.cipher.Decrypt(all[i].UsernameEncrypted)
		if err != nil {
			continue
		}
		if strings.ToLower(name) == lower {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", common.ErrNotFound, username)
}

func (s *UserService) view(u *models.User) UserView {
	name, err := s.cipher.Decrypt(u.UsernameEncrypted)
	if err != nil {
		name = EncryptedPlaceholder
	}
	role, _ := auth.ParseRole(u.Role)
	return UserView{
		ID:          u.ID,
		Username:    name,
		Role:        role,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		CreatedDate: u.CreatedDate,
		IsActive:    u.IsActive,
	}
}
