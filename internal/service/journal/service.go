// Package journal holds the ordered meal collection and keeps it persisted:
// every mutation is followed by a save of the whole archive.
package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/heartmarshall/foodtracker-backend/internal/domain"
	"github.com/heartmarshall/foodtracker-backend/internal/service/rating"
)

type archiveRepo interface {
	Load(ctx context.Context) ([]*domain.Meal, error)
	Save(ctx context.Context, meals []*domain.Meal) error
}

// Service provides the meal journal operations.
type Service struct {
	repo      archiveRepo
	bootstrap Bootstrap
	log       *slog.Logger

	mu        sync.Mutex
	store     *Store
	observers []Observer
}

// NewService creates a journal Service. A nil bootstrap behaves as NoBootstrap.
// The journal is empty until Open is called.
func NewService(
	log *slog.Logger,
	repo archiveRepo,
	bootstrap Bootstrap,
) *Service {
	if bootstrap == nil {
		bootstrap = NoBootstrap
	}
	return &Service{
		repo:      repo,
		bootstrap: bootstrap,
		log:       log.With("service", "journal"),
		store:     NewStore(nil),
	}
}

// Subscribe registers an observer for subsequent changes.
func (s *Service) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Load reads the saved archive. It returns (nil, false) when there is no
// archive yet or it cannot be read or decoded; it never fails.
// An archive holding zero meals is a successful load.
func (s *Service) Load(ctx context.Context) ([]*domain.Meal, bool) {
	meals, err := s.repo.Load(ctx)
	switch {
	case err == nil:
		s.log.DebugContext(ctx, "meals loaded", slog.Int("count", len(meals)))
		return meals, true
	case errors.Is(err, domain.ErrNotFound):
		s.log.DebugContext(ctx, "no saved meals")
	case errors.Is(err, domain.ErrDecode):
		s.log.WarnContext(ctx, "saved meals unreadable, ignoring archive",
			slog.String("error", err.Error()),
		)
	default:
		s.log.ErrorContext(ctx, "load meals failed",
			slog.String("error", err.Error()),
		)
	}
	return nil, false
}

// Open loads the saved journal, or applies the bootstrap policy when Load
// yields nothing. Bootstrapped content is not saved until the first mutation.
func (s *Service) Open(ctx context.Context) error {
	meals, ok := s.Load(ctx)
	if !ok {
		seeded, err := s.bootstrap()
		if err != nil {
			return fmt.Errorf("bootstrap journal: %w", err)
		}
		meals = seeded
		s.log.InfoContext(ctx, "journal bootstrapped", slog.Int("count", len(meals)))
	}

	s.mu.Lock()
	s.store = NewStore(meals)
	snapshot := cloneAll(s.store.All())
	observers := s.observersLocked()
	s.mu.Unlock()

	for _, o := range observers {
		o.Reloaded(snapshot)
	}
	return nil
}

// Save writes the full ordered journal. A failure is logged and reported as
// false; the in-memory journal stays authoritative.
func (s *Service) Save(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Service) saveLocked(ctx context.Context) bool {
	if err := s.repo.Save(ctx, s.store.All()); err != nil {
		s.log.ErrorContext(ctx, "failed to save meals",
			slog.Int("count", s.store.Len()),
			slog.String("error", err.Error()),
		)
		return false
	}
	s.log.DebugContext(ctx, "meals saved", slog.Int("count", s.store.Len()))
	return true
}

// Len returns the number of meals in the journal.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

// Meals returns copies of all meals in display order.
func (s *Service) Meals() []*domain.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.store.All())
}

// Meal returns a copy of the meal at index i.
func (s *Service) Meal(i int) (*domain.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.store.At(i)
	if err != nil {
		return nil, err
	}
	return m.Clone(), nil
}

// Add appends a meal and saves the journal. Returns the new index.
func (s *Service) Add(ctx context.Context, meal *domain.Meal) (int, error) {
	if meal == nil {
		return 0, domain.NewValidationError("meal", "required")
	}
	stored := meal.Clone()

	s.mu.Lock()
	i := s.store.Append(stored)
	s.saveLocked(ctx)
	observers := s.observersLocked()
	s.mu.Unlock()

	s.log.InfoContext(ctx, "meal added",
		slog.Int("index", i),
		slog.String("name", stored.Name),
		slog.Int("rating", stored.Rating),
	)
	for _, o := range observers {
		o.MealInserted(i, stored.Clone())
	}
	return i, nil
}

// Update replaces the meal at index i and saves the journal.
func (s *Service) Update(ctx context.Context, i int, meal *domain.Meal) error {
	if meal == nil {
		return domain.NewValidationError("meal", "required")
	}
	stored := meal.Clone()

	s.mu.Lock()
	if err := s.store.ReplaceAt(i, stored); err != nil {
		s.mu.Unlock()
		return err
	}
	s.saveLocked(ctx)
	observers := s.observersLocked()
	s.mu.Unlock()

	s.updated(ctx, i, stored, observers)
	return nil
}

// Edit rebuilds the meal at index i from the form pre-filled with it after
// edit has changed the fields, and saves the journal. Reading the current meal
// and replacing it happen under one lock, so a concurrent Delete cannot shift
// the edit onto another meal. Returns the stored meal.
func (s *Service) Edit(ctx context.Context, i int, edit func(MealInput) MealInput) (*domain.Meal, error) {
	s.mu.Lock()
	current, err := s.store.At(i)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	in := InputFromMeal(current)
	if edit != nil {
		in = edit(in)
	}
	stored, err := in.Build()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	_ = s.store.ReplaceAt(i, stored)
	s.saveLocked(ctx)
	observers := s.observersLocked()
	s.mu.Unlock()

	s.updated(ctx, i, stored, observers)
	return stored.Clone(), nil
}

func (s *Service) updated(ctx context.Context, i int, stored *domain.Meal, observers []Observer) {
	s.log.InfoContext(ctx, "meal updated",
		slog.Int("index", i),
		slog.String("name", stored.Name),
		slog.Int("rating", stored.Rating),
	)
	for _, o := range observers {
		o.MealUpdated(i, stored.Clone())
	}
}

// Delete removes the meal at index i and saves the journal.
func (s *Service) Delete(ctx context.Context, i int) error {
	s.mu.Lock()
	if err := s.store.RemoveAt(i); err != nil {
		s.mu.Unlock()
		return err
	}
	s.saveLocked(ctx)
	observers := s.observersLocked()
	s.mu.Unlock()

	s.log.InfoContext(ctx, "meal deleted", slog.Int("index", i))
	for _, o := range observers {
		o.MealRemoved(i)
	}
	return nil
}

// TapRating applies a tap on the 1-based star to the rating of the meal at
// index i, with the same toggle semantics as the form's rating control, and
// saves the journal. Returns the new rating.
func (s *Service) TapRating(ctx context.Context, i, star int) (int, error) {
	s.mu.Lock()
	current, err := s.store.At(i)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}

	control := rating.New(domain.MaxRating, nil)
	// A decoded rating is not range checked; an out-of-range one restarts from zero.
	_ = control.Set(current.Rating)
	if err := control.Tap(star); err != nil {
		s.mu.Unlock()
		return 0, domain.NewFieldError("star", err.Error(), domain.ErrRatingOutOfRange)
	}

	stored := current.Clone()
	stored.Rating = control.Value()
	_ = s.store.ReplaceAt(i, stored)
	s.saveLocked(ctx)
	observers := s.observersLocked()
	s.mu.Unlock()

	s.log.InfoContext(ctx, "meal rated",
		slog.Int("index", i),
		slog.Int("star", star),
		slog.Int("rating", stored.Rating),
	)
	for _, o := range observers {
		o.MealUpdated(i, stored.Clone())
	}
	return stored.Rating, nil
}

func (s *Service) observersLocked() []Observer {
	out := make([]Observer, len(s.observers))
	copy(out, s.observers)
	return out
}

func cloneAll(meals []*domain.Meal) []*domain.Meal {
	out := make([]*domain.Meal, len(meals))
	for i, m := range meals {
		out[i] = m.Clone()
	}
	return out
}
