package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-roster/pkg/core/model"
	"github.com/jakechorley/volunteer-roster/pkg/db"
	"github.com/jakechorley/volunteer-roster/pkg/metrics"
)

const (
	defaultWriteAttempts = 2
	defaultRetryDelay    = 100 * time.Millisecond
)

// ErrPersistence is returned when the durable mirror cannot be read or written
var ErrPersistence = errors.New("persistence failure")

// Options configures a Store
type Options struct {
	// WriteAttempts is the number of times a mirror write is tried before failing
	WriteAttempts int
	// RetryDelay is the pause between write attempts
	RetryDelay time.Duration
	Metrics    *metrics.Collector
}

// Store owns the in-memory volunteer roster and keeps its durable mirror in sync.
// Mutations hold the write lock across the in-memory change and the mirror
// rewrite. Reads hold the read lock and return copies.
type Store struct {
	mu         sync.RWMutex
	volunteers []model.Volunteer

	mirror        db.VolunteerMirror
	logger        *zap.Logger
	metrics       *metrics.Collector
	writeAttempts int
	retryDelay    time.Duration
}

// New creates an empty store backed by the given mirror. Call Load to read
// the persisted roster.
func New(mirror db.VolunteerMirror, logger *zap.Logger, opts Options) *Store {
	if opts.WriteAttempts < 1 {
		opts.WriteAttempts = defaultWriteAttempts
	}
	if opts.RetryDelay < 0 {
		opts.RetryDelay = defaultRetryDelay
	}

	return &Store{
		volunteers:    []model.Volunteer{},
		mirror:        mirror,
		logger:        logger,
		metrics:       opts.Metrics,
		writeAttempts: opts.WriteAttempts,
		retryDelay:    opts.RetryDelay,
	}
}

// Load replaces the in-memory roster with the mirror's contents.
// An absent or empty mirror is seeded with the bootstrap roster, which is
// persisted immediately. An unreadable mirror leaves the store empty and
// returns an ErrPersistence error.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	volunteers, err := s.mirror.LoadVolunteers(ctx)
	if err != nil {
		s.volunteers = []model.Volunteer{}
		s.metrics.SetVolunteerCount(0)
		return fmt.Errorf("%w: failed to load volunteers: %w", ErrPersistence, err)
	}

	if len(volunteers) > 0 {
		s.volunteers = model.CloneAll(volunteers)
		s.metrics.SetVolunteerCount(len(s.volunteers))
		s.logger.Info("Loaded volunteers from mirror", zap.Int("count", len(s.volunteers)))
		return nil
	}

	s.logger.Info("Mirror is empty, seeding bootstrap volunteers")
	s.volunteers = SeedVolunteers()
	s.metrics.SetVolunteerCount(len(s.volunteers))

	if err := s.persist(ctx); err != nil {
		return err
	}

	s.logger.Debug("Seeded volunteers persisted", zap.Int("count", len(s.volunteers)))
	return nil
}

// Save inserts the volunteer, or replaces the existing record with the same ID
// in place, then rewrites the mirror. If the mirror write fails the in-memory
// change is kept and an ErrPersistence error is returned alongside the record.
func (s *Store) Save(ctx context.Context, volunteer model.Volunteer) (model.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := volunteer.Clone()

	if i := s.indexOf(stored.ID); i >= 0 {
		s.volunteers[i] = stored
		s.logger.Debug("Replacing volunteer", zap.String("id", stored.ID), zap.Int("position", i))
	} else {
		s.volunteers = append(s.volunteers, stored)
		s.logger.Debug("Appending volunteer", zap.String("id", stored.ID))
	}
	s.metrics.SetVolunteerCount(len(s.volunteers))

	if err := s.persist(ctx); err != nil {
		return stored.Clone(), err
	}

	return stored.Clone(), nil
}

// Update applies mutate to a copy of the stored volunteer with the given ID,
// stores the result in place and rewrites the mirror. The ID cannot be changed
// by mutate. Returns false if no volunteer has the ID.
func (s *Store) Update(ctx context.Context, id string, mutate func(model.Volunteer) model.Volunteer) (model.Volunteer, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Volunteer{}, false, nil
	}

	updated := mutate(s.volunteers[i].Clone()).Clone()
	updated.ID = id
	s.volunteers[i] = updated

	if err := s.persist(ctx); err != nil {
		return updated.Clone(), true, err
	}

	return updated.Clone(), true, nil
}

// Delete removes the record with the volunteer's ID and rewrites the mirror.
// Deleting a volunteer that is not stored does nothing.
func (s *Store) Delete(ctx context.Context, volunteer model.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(volunteer.ID)
	if i < 0 {
		s.logger.Debug("Delete skipped, volunteer not stored", zap.String("id", volunteer.ID))
		return nil
	}

	s.volunteers = append(s.volunteers[:i], s.volunteers[i+1:]...)
	s.metrics.SetVolunteerCount(len(s.volunteers))

	return s.persist(ctx)
}

// FindByID returns the volunteer with the given ID
func (s *Store) FindByID(id string) (model.Volunteer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.volunteers[i].Clone(), true
	}
	return model.Volunteer{}, false
}

// FindAll returns every volunteer in iteration order
func (s *Store) FindAll() []model.Volunteer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return model.CloneAll(s.volunteers)
}

// FindBySkills returns volunteers that have at least one of the given skills
func (s *Store) FindBySkills(skills []string) []model.Volunteer {
	return s.filter(func(v model.Volunteer) bool {
		return v.HasAnySkill(skills)
	})
}

// FindByIsActive returns volunteers whose active flag equals active
func (s *Store) FindByIsActive(active bool) []model.Volunteer {
	return s.filter(func(v model.Volunteer) bool {
		return v.Active == active
	})
}

// Len returns the number of stored volunteers
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.volunteers)
}

func (s *Store) filter(keep func(model.Volunteer) bool) []model.Volunteer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]model.Volunteer, 0)
	for _, v := range s.volunteers {
		if keep(v) {
			results = append(results, v.Clone())
		}
	}
	return results
}

// indexOf must be called with s.mu held
func (s *Store) indexOf(id string) int {
	for i := range s.volunteers {
		if s.volunteers[i].ID == id {
			return i
		}
	}
	return -1
}

// persist rewrites the mirror from the in-memory roster, retrying failed
// writes. Cancelling ctx does not stop a write once the in-memory change is
// made. Must be called with s.mu held for writing.
func (s *Store) persist(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)

	var err error
	for attempt := 1; attempt <= s.writeAttempts; attempt++ {
		err = s.mirror.ReplaceVolunteers(ctx, s.volunteers)
		s.metrics.MirrorWrite(err)
		if err == nil {
			return nil
		}

		s.logger.Warn("Mirror write failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.writeAttempts),
			zap.Error(err))

		if attempt == s.writeAttempts {
			break
		}

		time.Sleep(s.retryDelay)
	}

	s.logger.Error("Giving up on mirror write, in-memory roster is ahead of the mirror",
		zap.Int("count", len(s.volunteers)),
		zap.Error(err))

	return fmt.Errorf("%w: failed to write volunteers: %w", ErrPersistence, err)
}
