package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urbanmobility/umob/internal/auth"
	"github.com/urbanmobility/umob/internal/common"
	"github.com/urbanmobility/umob/internal/cryptox"
	"github.com/urbanmobility/umob/internal/logging"
	"github.com/urbanmobility/umob/internal/models"
	"github.com/urbanmobility/umob/internal/repositories/travelers"
	"github.com/urbanmobility/umob/internal/validation"
)

// TravelerInput carries the plaintext fields for creating a traveler.
type TravelerInput struct {
	FirstName      string
	LastName       string
	Birthday       string
	Gender         string
	StreetName     string
	HouseNumber    string
	ZipCode        string
	City           string
	Email          string
	MobilePhone    string
	DrivingLicense string
}

// TravelerView is a traveler with contact fields decrypted for display.
type TravelerView struct {
	CustomerID       string
	FirstName        string
	LastName         string
	Birthday         string
	Gender           string
	StreetName       string
	HouseNumber      string
	ZipCode          string
	City             string
	Email            string
	MobilePhone      string
	DrivingLicense   string
	RegistrationDate string
}

// TravelerService manages customer records.
type TravelerService struct {
	repo     travelers.Repository
	cipher   *cryptox.Cipher
	session  Authorizer
	recorder Recorder
	log      logging.Logger
}

func NewTravelerService(repo travelers.Repository, cipher *cryptox.Cipher,
	session Authorizer, recorder Recorder, log logging.Logger) *TravelerService {
	return &TravelerService{repo: repo, cipher: cipher, session: session, recorder: recorder, log: log}
}

// Create validates the input, encrypts the contact fields and stores a new
// traveler under a freshly assigned customer id.
func (s *TravelerService) Create(ctx context.Context, in TravelerInput) (string, error) {
	if err := requireCapability(s.session, auth.CapManageTravelers); err != nil {
		return "", err
	}
	if err := validateTravelerInput(in); err != nil {
		return "", err
	}

	customerID, err := s.nextCustomerID(ctx)
	if err != nil {
		return "", err
	}

	email, err := s.cipher.Encrypt(in.Email)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt email: %w", err)
	}
	phone, err := s.cipher.Encrypt(in.MobilePhone)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt mobile phone: %w", err)
	}
	license, err := s.cipher.Encrypt(in.DrivingLicense)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt driving license: %w", err)
	}

	tr := &models.Traveler{
		CustomerID:       customerID,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Birthday:         in.Birthday,
		Gender:           in.Gender,
		StreetName:       in.StreetName,
		HouseNumber:      in.HouseNumber,
		ZipCode:          in.ZipCode,
		City:             in.City,
		Email:            email,
		MobilePhone:      phone,
		DrivingLicense:   license,
		RegistrationDate: time.Now().Format(time.RFC3339),
	}
	if _, err := s.repo.Create(ctx, tr); err != nil {
		return "", err
	}

	s.log.Info(ctx, "traveler created", "customer_id", customerID)
	s.recorder.Record(ctx, s.session.CurrentUsername(), "create_traveler", customerID, false)
	return customerID, nil
}

// Get returns one traveler with contact fields decrypted.
func (s *TravelerService) Get(ctx context.Context, customerID string) (*TravelerView, error) {
	if err := requireCapability(s.session, auth.CapManageTravelers); err != nil {
		return nil, err
	}
	tr, err := s.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	view := s.view(tr)
	return &view, nil
}

// List returns all travelers with contact fields decrypted.
func (s *TravelerService) List(ctx context.Context) ([]TravelerView, error) {
	if err := requireCapability(s.session, auth.CapManageTravelers); err != nil {
		return nil, err
	}
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]TravelerView, len(all))
	for i := range all {
		views[i] = s.view(&all[i])
	}
	return views, nil
}

// Search finds travelers whose customer id or name contains the term, plus
// those whose decrypted email does. The email match has to happen in memory
// since the stored tokens are not searchable.
func (s *TravelerService) Search(ctx context.Context, term string) ([]TravelerView, error) {
	if err := requireCapability(s.session, auth.CapManageTravelers); err != nil {
		return nil, err
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term is empty", common.ErrInvalidInput)
	}

	plain, err := s.repo.SearchPlain(ctx, term)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(plain))
	views := make([]TravelerView, 0, len(plain))
	for i := range plain {
		seen[plain[i].CustomerID] = true
		views = append(views, s.view(&plain[i]))
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(term)
	for i := range all {
		if seen[all[i].CustomerID] {
			continue
		}
		email, err := s.cipher.Decrypt(all[i].Email)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(email), lower) {
			views = append(views, s.view(&all[i]))
		}
	}
	return views, nil
}

// Update changes the given plaintext fields of a traveler. Contact fields
// are validated and re-encrypted; unknown field names are rejected.
func (s *TravelerService) Update(ctx context.Context, customerID string, fields map[string]string) error {
	if err := requireCapability(s.session, auth.CapManageTravelers); err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", common.ErrInvalidInput)
	}

	stored := make(map[string]string, len(fields))
	for name, value := range fields {
		if err := validateTravelerField(name, value); err != nil {
			return err
		}
		switch name {
		case "email", "mobile_phone", "driving_license":
			token, err := s.cipher.Encrypt(value)
			if err != nil {
				return fmt.Errorf("failed to encrypt %s: %w", name, err)
			}
			stored[name] = token
		default:
			stored[name] = value
		}
	}

	if err := s.repo.Update(ctx, customerID, stored); err != nil {
		return err
	}
	s.recorder.Record(ctx, s.session.CurrentUsername(), "update_traveler", customerID, false)
	return nil
}

// Delete removes a traveler.
func (s *TravelerService) Delete(ctx context.Context, customerID string) error {
	if err := requireCapability(s.session, auth.CapManageTravelers); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, customerID); err != nil {
		return err
	}
	s.recorder.Record(ctx, s.session.CurrentUsername(), "delete_traveler", customerID, false)
	return nil
}

func (s *TravelerService) view(tr *models.Traveler) TravelerView {
	return TravelerView{
		CustomerID:       tr.CustomerID,
		FirstName:        tr.FirstName,
		LastName:         tr.LastName,
		Birthday:         tr.Birthday,
		Gender:           tr.Gender,
		StreetName:       tr.StreetName,
		HouseNumber:      tr.HouseNumber,
		ZipCode:          tr.ZipCode,
		City:             tr.City,
		Email:            s.decryptOrPlaceholder(tr.Email),
		MobilePhone:      s.decryptOrPlaceholder(tr.MobilePhone),
		DrivingLicense:   s.decryptOrPlaceholder(tr.DrivingLicense),
		RegistrationDate: tr.RegistrationDate,
	}
}

func (s *TravelerService) decryptOrPlaceholder(token string) string {
	plain, err := s.cipher.Decrypt(token)
	if err != nil {
		return EncryptedPlaceholder
	}
	return plain
}

// nextCustomerID assigns sequential CUST-prefixed ids, skipping over any
// already taken.
func (s *TravelerService) nextCustomerID(ctx context.Context) (string, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return "", err
	}
	for n := count + 1; ; n++ {
		id := fmt.Sprintf("CUST%06d", n)
		_, err := s.repo.GetByCustomerID(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
	}
}

func validateTravelerInput(in TravelerInput) error {
	checks := []error{
		validation.PersonName("first name", in.FirstName),
		validation.PersonName("last name", in.LastName),
		validation.Birthday(in.Birthday),
		validation.Gender(in.Gender),
		validation.StreetName(in.StreetName),
		validation.HouseNumber(in.HouseNumber),
		validation.ZipCode(in.ZipCode),
		validation.City(in.City),
		validation.Email(in.Email),
		validation.MobilePhone(in.MobilePhone),
		validation.DrivingLicense(in.DrivingLicense),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

func validateTravelerField(name, value string) error {
	switch name {
	case "first_name":
		return validation.PersonName("first name", value)
	case "last_name":
		return validation.PersonName("last name", value)
	case "birthday":
		return validation.Birthday(value)
	case "gender":
		return validation.Gender(value)
	case "street_name":
		return validation.StreetName(value)
	case "house_number":
		return validation.HouseNumber(value)
	case "zip_code":
		return validation.ZipCode(value)
	case "city":
		return validation.City(value)
	case "email":
		return validation.Email(value)
	case "mobile_phone":
		return validation.MobilePhone(value)
	case "driving_license":
		return validation.DrivingLicense(value)
	default:
		return fmt.Errorf("%w: unknown field %q", common.ErrInvalidInput, name)
	}
}
