package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-roster/pkg/core/model"
)

// ImportFailure describes a volunteer that was rejected during an import
type ImportFailure struct {
	VolunteerName string
	Email         string
	Error         string
}

// ImportResult summarises an import run
type ImportResult struct {
	Imported []model.Volunteer
	Failed   []ImportFailure
}

// ImportVolunteers validates and upserts a batch of volunteers.
// Invalid volunteers are reported in the result and skipped; a persistence
// failure stops the import and is returned.
func (s *VolunteerService) ImportVolunteers(ctx context.Context, volunteers []model.Volunteer) (*ImportResult, error) {
	result := &ImportResult{}

	s.logger.Info("Importing volunteers", zap.Int("count", len(volunteers)))

	for _, v := range volunteers {
		saved, err := s.CreateVolunteer(ctx, v)
		if errors.Is(err, ErrInvalidInput) {
			s.logger.Warn("Skipping invalid volunteer",
				zap.String("id", v.ID),
				zap.String("name", v.FirstName+" "+v.LastName),
				zap.Error(err))
			result.Failed = append(result.Failed, ImportFailure{
				VolunteerName: v.FirstName + " " + v.LastName,
				Email:         v.Email,
				Error:         err.Error(),
			})
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to import volunteers: %w", err)
		}

		result.Imported = append(result.Imported, saved)
	}

	s.logger.Info("Import finished",
		zap.Int("imported", len(result.Imported)),
		zap.Int("failed", len(result.Failed)))

	return result, nil
}
