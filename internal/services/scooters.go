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
	"github.com/urbanmobility/umob/internal/repositories/scooters"
	"github.com/urbanmobility/umob/internal/validation"
)

// ScooterInput carries the plaintext fields for adding a scooter.
type ScooterInput struct {
	Brand           string
	Model           string
	SerialNumber    string
	TopSpeed        int
	BatteryCapacity int
	StateOfCharge   int
	TargetRangeMin  int
	TargetRangeMax  int
	Latitude        float64
	Longitude       float64
}

// ScooterStatus carries the fields a service engineer may change.
type ScooterStatus struct {
	StateOfCharge       *int
	TargetRangeMin      *int
	TargetRangeMax      *int
	Latitude            *float64
	Longitude           *float64
	OutOfServiceStatus  *string
	Mileage             *float64
	LastMaintenanceDate *string
}

// ScooterView is a scooter with the serial number decrypted for display.
type ScooterView struct {
	ID                  int64
	Brand               string
	Model               string
	SerialNumber        string
	TopSpeed            int
	BatteryCapacity     int
	StateOfCharge       int
	TargetRangeMin      int
	TargetRangeMax      int
	Latitude            float64
	Longitude           float64
	OutOfServiceStatus  string
	Mileage             float64
	LastMaintenanceDate string
	InServiceDate       string
}

// ScooterService manages the fleet.
type ScooterService struct {
	repo     scooters.Repository
	cipher   *cryptox.Cipher
	session  Authorizer
	recorder Recorder
	log      logging.Logger
}

func NewScooterService(repo scooters.Repository, cipher *cryptox.Cipher,
	session Authorizer, recorder Recorder, log logging.Logger) *ScooterService {
	return &ScooterService{repo: repo, cipher: cipher, session: session, recorder: recorder, log: log}
}

// Add validates the input, encrypts the serial number and stores a new
// scooter.
func (s *ScooterService) Add(ctx context.Context, in ScooterInput) (int64, error) {
	if err := requireCapability(s.session, auth.CapAddScooter); err != nil {
		return 0, err
	}
	if err := validateScooterInput(in); err != nil {
		return 0, err
	}

	serial, err := s.cipher.Encrypt(in.SerialNumber)
	if err != nil {
		return 0, fmt.Errorf("failed to encrypt serial number: %w", err)
	}

	sc := &models.Scooter{
		Brand:           in.Brand,
		Model:           in.Model,
		SerialNumber:    serial,
		TopSpeed:        in.TopSpeed,
		BatteryCapacity: in.BatteryCapacity,
		StateOfCharge:   in.StateOfCharge,
		TargetRangeMin:  in.TargetRangeMin,
		TargetRangeMax:  in.TargetRangeMax,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
		InServiceDate:   time.Now().Format(time.RFC3339),
	}
	id, err := s.repo.Create(ctx, sc)
	if err != nil {
		return 0, err
	}

	s.log.Info(ctx, "scooter added", "id", id)
	s.recorder.Record(ctx, s.session.CurrentUsername(), "add_scooter",
		fmt.Sprintf("%s %s (id %d)", in.Brand, in.Model, id), false)
	return id, nil
}

// Get returns one scooter with the serial number decrypted. Any role with
// scooter access may look at the fleet.
func (s *ScooterService) Get(ctx context.Context, id int64) (*ScooterView, error) {
	if err := requireCapability(s.session, auth.CapUpdateScooterStatus); err != nil {
		return nil, err
	}
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.view(sc)
	return &view, nil
}

// List returns the whole fleet.
func (s *ScooterService) List(ctx context.Context) ([]ScooterView, error) {
	if err := requireCapability(s.session, auth.CapUpdateScooterStatus); err != nil {
		return nil, err
	}
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ScooterView, len(all))
	for i := range all {
		views[i] = s.view(&all[i])
	}
	return views, nil
}

// Search finds scooters whose brand, model or decrypted serial number
// contains the term.
func (s *ScooterService) Search(ctx context.Context, term string) ([]ScooterView, error) {
	if err := requireCapability(s.session, auth.CapUpdateScooterStatus); err != nil {
		return nil, err
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term is empty", common.ErrInvalidInput)
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(term)
	var views []ScooterView
	for i := range all {
		v := s.view(&all[i])
		if strings.Contains(strings.ToLower(v.Brand), lower) ||
			strings.Contains(strings.ToLower(v.Model), lower) ||
			(v.SerialNumber != EncryptedPlaceholder &&
				strings.Contains(strings.ToLower(v.SerialNumber), lower)) {
			views = append(views, v)
		}
	}
	return views, nil
}

// Update replaces a scooter's full record. Reserved for administrators.
func (s *ScooterService) Update(ctx context.Context, id int64, in ScooterInput) error {
	if err := requireCapability(s.session, auth.CapUpdateScooterInfo); err != nil {
		return err
	}
	if err := validateScooterInput(in); err != nil {
		return err
	}

	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	serial, err := s.cipher.Encrypt(in.SerialNumber)
	if err != nil {
		return fmt.Errorf("failed to encrypt serial number: %w", err)
	}
	sc.Brand = in.Brand
	sc.Model = in.Model
	sc.SerialNumber = serial
	sc.TopSpeed = in.TopSpeed
	sc.BatteryCapacity = in.BatteryCapacity
	sc.StateOfCharge = in.StateOfCharge
	sc.TargetRangeMin = in.TargetRangeMin
	sc.TargetRangeMax = in.TargetRangeMax
	sc.Latitude = in.Latitude
	sc.Longitude = in.Longitude

	if err := s.repo.Update(ctx, sc); err != nil {
		return err
	}
	s.recorder.Record(ctx, s.session.CurrentUsername(), "update_scooter", fmt.Sprintf("id %d", id), false)
	return nil
}

// UpdateStatus changes the operational fields a service engineer is allowed
// to touch. Nil pointers leave the current value in place.
func (s *ScooterService) UpdateStatus(ctx context.Context, id int64, st ScooterStatus) error {
	if err := requireCapability(s.session, auth.CapUpdateScooterStatus); err != nil {
		return err
	}

	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if st.StateOfCharge != nil {
		if err := validation.StateOfCharge(*st.StateOfCharge); err != nil {
			return err
		}
		sc.StateOfCharge = *st.StateOfCharge
	}
	if st.TargetRangeMin != nil || st.TargetRangeMax != nil {
		minV, maxV := sc.TargetRangeMin, sc.TargetRangeMax
		if st.TargetRangeMin != nil {
			minV = *st.TargetRangeMin
		}
		if st.TargetRangeMax != nil {
			maxV = *st.TargetRangeMax
		}
		if err := validation.SoCRange(minV, maxV); err != nil {
			return err
		}
		sc.TargetRangeMin, sc.TargetRangeMax = minV, maxV
	}
	if st.Latitude != nil {
		if err := validation.Latitude(*st.Latitude); err != nil {
			return err
		}
		sc.Latitude = *st.Latitude
	}
	if st.Longitude != nil {
		if err := validation.Longitude(*st.Longitude); err != nil {
			return err
		}
		sc.Longitude = *st.Longitude
	}
	if st.OutOfServiceStatus != nil {
		sc.OutOfServiceStatus = *st.OutOfServiceStatus
	}
	if st.Mileage != nil {
		if err := validation.NonNegativeFloat("mileage", *st.Mileage); err != nil {
			return err
		}
		sc.Mileage = *st.Mileage
	}
	if st.LastMaintenanceDate != nil {
		if err := validation.ISODate("maintenance date", *st.LastMaintenanceDate); err != nil {
			return err
		}
		sc.LastMaintenanceDate = *st.LastMaintenanceDate
	}

	if err := s.repo.Update(ctx, sc); err != nil {
		return err
	}
	s.recorder.Record(ctx, s.session.CurrentUsername(), "update_scooter_status", fmt.Sprintf("id %d", id), false)
	return nil
}

// Delete removes a scooter from the fleet.
func (s *ScooterService) Delete(ctx context.Context, id int64) error {
	if err := requireCapability(s.session, auth.CapDeleteScooter); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(ctx, s.session.CurrentUsername(), "delete_scooter", fmt.Sprintf("id %d", id), false)
	return nil
}

func (s *ScooterService) view(sc *models.Scooter) ScooterView {
	serial, err := s.cipher.Decrypt(sc.SerialNumber)
	if err != nil {
		serial = EncryptedPlaceholder
	}
	return ScooterView{
		ID:                  sc.ID,
		Brand:               sc.Brand,
		Model:               sc.Model,
		SerialNumber:        serial,
		TopSpeed:            sc.TopSpeed,
		BatteryCapacity:     sc.BatteryCapacity,
		StateOfCharge:       sc.StateOfCharge,
		TargetRangeMin:      sc.TargetRangeMin,
		TargetRangeMax:      sc.TargetRangeMax,
		Latitude:            sc.Latitude,
		Longitude:           sc.Longitude,
		OutOfServiceStatus:  sc.OutOfServiceStatus,
		Mileage:             sc.Mileage,
		LastMaintenanceDate: sc.LastMaintenanceDate,
		InServiceDate:       sc.InServiceDate,
	}
}

func validateScooterInput(in ScooterInput) error {
	checks := []error{
		validation.BrandOrModel("brand", in.Brand),
		validation.BrandOrModel("model", in.Model),
		validation.SerialNumber(in.SerialNumber),
		validation.PositiveInt("top speed", in.TopSpeed),
		validation.PositiveInt("battery capacity", in.BatteryCapacity),
		validation.StateOfCharge(in.StateOfCharge),
		validation.SoCRange(in.TargetRangeMin, in.TargetRangeMax),
		validation.Latitude(in.Latitude),
		validation.Longitude(in.Longitude),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}
