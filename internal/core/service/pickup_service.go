package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/adrian5517/nagaclean-client/internal/core/domain"
	"github.com/adrian5517/nagaclean-client/internal/core/ports"
	"github.com/adrian5517/nagaclean-client/internal/pkg/metrics"
)

var (
	dateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	time24Re = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

// PickupService implements client-side validation and the status lifecycle on
// top of the remote pickup collection.
type PickupService struct {
	repo     ports.PickupRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewPickupService(repo ports.PickupRepository, logger zerolog.Logger) *PickupService {
	v := validator.New()

	// Report errors under the wire field name from the `form` tag, so the
	// error set is keyed the way the form schema names its fields.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "pickupdate", validPickupDate)
	mustRegister(v, "time24", validTime24)
	mustRegister(v, "latlng", validLatLng)

	return &PickupService{repo: repo, validate: v, logger: logger}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("pickup service: register validation %q: %v", tag, err))
	}
}

func (s *PickupService) List(ctx context.Context) ([]domain.PickupRequest, error) {
	return s.repo.List(ctx)
}

func (s *PickupService) ListPending(ctx context.Context) ([]domain.PickupRequest, error) {
	return s.repo.ListPending(ctx)
}

// Create validates the form, assembles the submission draft with initial
// status pending, and submits it. The server assigns the record id.
func (s *PickupService) Create(ctx context.Context, form ports.PickupForm) (*domain.PickupRequest, error) {
	if err := s.validateForm(form); err != nil {
		return nil, err
	}

	draft, err := draftFromForm(form, domain.StatusPending)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, draft)
	if err != nil {
		s.logger.Error().Err(err).Str("name", form.Name).Msg("failed to create pickup")
		return nil, err
	}

	metrics.PickupsCreatedTotal.WithLabelValues(created.WasteType).Inc()
	s.logger.Info().Str("id", created.ID).Str("name", created.Name).Msg("pickup created")
	return created, nil
}

// Update validates the form and replaces the full record. The record keeps
// the status it had when editing started; edits never reset triage.
func (s *PickupService) Update(ctx context.Context, id string, form ports.PickupForm, status domain.PickupStatus) (*domain.PickupRequest, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("update pickup %s: %w: unknown status %q", id, domain.ErrInvalidTransition, status)
	}
	if err := s.validateForm(form); err != nil {
		return nil, err
	}

	draft, err := draftFromForm(form, status)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, draft)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("failed to update pickup")
		return nil, err
	}

	s.logger.Info().Str("id", updated.ID).Msg("pickup updated")
	return updated, nil
}

// UpdateStatus transitions a record along the triage lifecycle. A record
// never returns to pending.
func (s *PickupService) UpdateStatus(ctx context.Context, id string, current, next domain.PickupStatus) (*domain.PickupRequest, error) {
	if !current.CanTransitionTo(next) {
		return nil, fmt.Errorf("update status: %w (from %s to %s)", domain.ErrInvalidTransition, current, next)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Str("status", string(next)).Msg("failed to update pickup status")
		return nil, err
	}

	metrics.TriageActionsTotal.WithLabelValues(string(next)).Inc()
	s.logger.Info().Str("id", id).Str("status", string(next)).Msg("pickup status updated")
	return updated, nil
}

func (s *PickupService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("failed to delete pickup")
		return err
	}
	s.logger.Info().Str("id", id).Msg("pickup deleted")
	return nil
}

// validateForm runs a single validation pass and collects every violation
// into a field-keyed error set.
func (s *PickupService) validateForm(form ports.PickupForm) error {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := make(domain.ValidationErrors, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

// fieldLabels maps wire field names to the labels used in error messages.
var fieldLabels = map[string]string{
	"name":        "Name",
	"description": "Description",
	"wasteType":   "Waste type",
	"date":        "Date",
	"time":        "Time",
	"reported_by": "Reporter name",
	"location":    "Location",
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "pickupdate":
		return "Date must be in YYYY-MM-DD format"
	case "time24":
		return "Time must be in HH:MM format"
	case "latlng":
		return "Location must be two comma-separated coordinates"
	default:
		return label + " is invalid"
	}
}

// draftFromForm splits the combined location string into numeric coordinates
// and normalizes the calendar date to UTC midnight. The form has already been
// validated, so parse failures here are defects, not user errors.
func draftFromForm(form ports.PickupForm, status domain.PickupStatus) (domain.PickupDraft, error) {
	lat, lng, err := splitLocation(form.Location)
	if err != nil {
		return domain.PickupDraft{}, fmt.Errorf("parse location: %w", err)
	}

	date, err := time.Parse("2006-01-02", form.Date)
	if err != nil {
		return domain.PickupDraft{}, fmt.Errorf("parse date: %w", err)
	}

	return domain.PickupDraft{
		Name:        form.Name,
		Description: form.Description,
		WasteType:   form.WasteType,
		Latitude:    lat,
		Longitude:   lng,
		Date:        date.UTC(),
		Time:        form.Time,
		ReportedBy:  form.ReportedBy,
		Status:      status,
	}, nil
}

// splitLocation parses a "lat, lon" string into two finite coordinates.
func splitLocation(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two comma-separated values, got %d", len(parts))
	}

	coords := make([]float64, 2)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, 0, fmt.Errorf("coordinate %d: %w", i+1, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, fmt.Errorf("coordinate %d is not finite", i+1)
		}
		coords[i] = v
	}
	return coords[0], coords[1], nil
}

func validPickupDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validTime24(fl validator.FieldLevel) bool {
	return time24Re.MatchString(fl.Field().String())
}

func validLatLng(fl validator.FieldLevel) bool {
	_, _, err := splitLocation(fl.Field().String())
	return err == nil
}
