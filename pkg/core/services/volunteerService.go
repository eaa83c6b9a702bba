package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-roster/pkg/core/model"
	"github.com/jakechorley/volunteer-roster/pkg/core/query"
)

// VolunteerStore defines the store operations used by VolunteerService.
// *store.Store implements this interface.
type VolunteerStore interface {
	Save(ctx context.Context, volunteer model.Volunteer) (model.Volunteer, error)
	Update(ctx context.Context, id string, mutate func(model.Volunteer) model.Volunteer) (model.Volunteer, bool, error)
	Delete(ctx context.Context, volunteer model.Volunteer) error
	FindByID(id string) (model.Volunteer, bool)
	FindAll() []model.Volunteer
}

// VolunteerService validates and orchestrates roster operations
type VolunteerService struct {
	store  VolunteerStore
	logger *zap.Logger
}

// NewVolunteerService creates a service over the given store
func NewVolunteerService(store VolunteerStore, logger *zap.Logger) *VolunteerService {
	return &VolunteerService{
		store:  store,
		logger: logger,
	}
}

// CreateVolunteer validates and stores a new volunteer.
// A caller-supplied ID is kept; otherwise a new one is generated.
func (s *VolunteerService) CreateVolunteer(ctx context.Context, volunteer model.Volunteer) (model.Volunteer, error) {
	if err := ValidateVolunteer(volunteer); err != nil {
		return model.Volunteer{}, err
	}

	if strings.TrimSpace(volunteer.ID) == "" {
		volunteer.ID = uuid.New().String()
	}

	s.logger.Debug("Creating volunteer", zap.String("id", volunteer.ID))

	saved, err := s.store.Save(ctx, volunteer)
	if err != nil {
		return saved, fmt.Errorf("failed to save volunteer %s: %w", volunteer.ID, err)
	}

	s.logger.Info("Volunteer created",
		zap.String("id", saved.ID),
		zap.String("name", saved.FirstName+" "+saved.LastName))

	return saved, nil
}

// UpdateVolunteer merges patch into the stored volunteer with the given ID.
// The patch must pass the same validation as a new volunteer. Text fields and
// skills only replace stored values when populated; active is always replaced.
func (s *VolunteerService) UpdateVolunteer(ctx context.Context, id string, patch model.Volunteer) (model.Volunteer, error) {
	if err := ValidateVolunteer(patch); err != nil {
		return model.Volunteer{}, err
	}

	s.logger.Debug("Updating volunteer", zap.String("id", id))

	updated, found, err := s.store.Update(ctx, id, func(existing model.Volunteer) model.Volunteer {
		return mergeVolunteer(existing, patch)
	})
	if !found {
		return model.Volunteer{}, &NotFoundError{ID: id}
	}
	if err != nil {
		return updated, fmt.Errorf("failed to save volunteer %s: %w", id, err)
	}

	s.logger.Info("Volunteer updated", zap.String("id", id))

	return updated, nil
}

// DeleteVolunteer removes the volunteer with the given ID
func (s *VolunteerService) DeleteVolunteer(ctx context.Context, id string) error {
	existing, ok := s.store.FindByID(id)
	if !ok {
		return &NotFoundError{ID: id}
	}

	if err := s.store.Delete(ctx, existing); err != nil {
		return fmt.Errorf("failed to delete volunteer %s: %w", id, err)
	}

	s.logger.Info("Volunteer deleted", zap.String("id", id))

	return nil
}

// GetVolunteerByID returns the volunteer with the given ID
func (s *VolunteerService) GetVolunteerByID(id string) (model.Volunteer, error) {
	volunteer, ok := s.store.FindByID(id)
	if !ok {
		return model.Volunteer{}, &NotFoundError{ID: id}
	}
	return volunteer, nil
}

// GetAllVolunteers returns the full roster
func (s *VolunteerService) GetAllVolunteers() []model.Volunteer {
	return s.store.FindAll()
}

// SearchVolunteers filters the full roster by the query
func (s *VolunteerService) SearchVolunteers(q model.SearchQuery) []model.Volunteer {
	results := query.Search(s.store.FindAll(), q)

	s.logger.Debug("Searched volunteers",
		zap.Strings("skills", q.Skills),
		zap.Bool("active", q.Active),
		zap.String("role", q.Role),
		zap.Int("results", len(results)))

	return results
}

// mergeVolunteer applies the populated fields of patch onto existing.
// The ID of existing is never changed.
func mergeVolunteer(existing, patch model.Volunteer) model.Volunteer {
	merged := existing

	mergeText(&merged.FirstName, patch.FirstName)
	mergeText(&merged.LastName, patch.LastName)
	mergeText(&merged.ContactNumber, patch.ContactNumber)
	mergeText(&merged.Email, patch.Email)
	mergeText(&merged.Role, patch.Role)
	mergeText(&merged.DateOfBirth, patch.DateOfBirth)
	mergeText(&merged.DateJoined, patch.DateJoined)

	if len(patch.Skills) > 0 {
		merged.Skills = slices.Clone(patch.Skills)
	}

	// Booleans have no "absent" value
	merged.Active = patch.Active

	return merged
}

func mergeText(dst *string, value string) {
	if strings.TrimSpace(value) != "" {
		*dst = value
	}
}
