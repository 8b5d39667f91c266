package appconfig

import (
	"context"

	"github.com/go-playground/validator/v10"

	"bookly/pkg/config"
	apperrors "bookly/pkg/errors"
	"bookly/pkg/events"
	"bookly/pkg/logger"
	"bookly/pkg/model"
	"bookly/pkg/timeutil"
)

type Service interface {
	// Get returns the active configuration. It never fails: a missing or
	// unreadable document degrades to the built-in defaults.
	Get(ctx context.Context) *model.Config

	Update(ctx context.Context, session *model.Session, update *model.ConfigUpdate) (*model.Config, error)
	BlockSlot(ctx context.Context, session *model.Session, slot string) (*model.Config, error)
	UnblockSlot(ctx context.Context, session *model.Session, slot string) (*model.Config, error)
}

type service struct {
	repo      Repository
	publisher events.Publisher
	validate  *validator.Validate
	defaults  *model.Config
	log       *logger.Logger
}

// NewService builds the configuration service. publisher may be nil when
// change notifications are disabled; defaults may be nil to use the built-in
// working day.
func NewService(repo Repository, publisher events.Publisher, validate *validator.Validate, defaults *model.Config, log *logger.Logger) Service {
	if defaults == nil {
		defaults = DefaultConfig()
	}
	return &service{
		repo:      repo,
		publisher: publisher,
		validate:  validate,
		defaults:  defaults,
		log:       log,
	}
}

// DefaultConfig returns the configuration used before an admin ever saves one.
func DefaultConfig() *model.Config {
	return &model.Config{
		SlotDurationMin: config.DefaultSlotDurationMin,
		StartTime:       config.DefaultStartTime,
		EndTime:         config.DefaultEndTime,
		BlockedSlots:    []string{},
	}
}

func (s *service) defaultConfig() *model.Config {
	return &model.Config{
		SlotDurationMin: s.defaults.SlotDurationMin,
		StartTime:       s.defaults.StartTime,
		EndTime:         s.defaults.EndTime,
		BlockedSlots:    append([]string{}, s.defaults.BlockedSlots...),
	}
}

func (s *service) Get(ctx context.Context) *model.Config {
	cfg, err := s.repo.Get(ctx)
	if err == nil {
		if cfg.BlockedSlots == nil {
			cfg.BlockedSlots = []string{}
		}
		return cfg
	}

	if err == ErrNotFound {
		// First read on a fresh deployment. Persist the defaults so admin
		// edits start from a stored document, but serve them regardless.
		defaults := s.defaultConfig()
		if saveErr := s.repo.EnsureDefaults(ctx, defaults); saveErr != nil {
			s.log.Warn("failed to persist default configuration", "error", saveErr)
		}
		return defaults
	}

	s.log.Warn("failed to read configuration, serving defaults", "error", err)
	return s.defaultConfig()
}

func (s *service) Update(ctx context.Context, session *model.Session, update *model.ConfigUpdate) (*model.Config, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	if err := s.validate.Struct(update); err != nil {
		return nil, apperrors.Validation("Invalid configuration update", map[string]any{
			"validation": err.Error(),
		})
	}

	cfg := s.Get(ctx)
	if update.SlotDurationMin != nil {
		cfg.SlotDurationMin = *update.SlotDurationMin
	}
	if update.StartTime != "" {
		cfg.StartTime = update.StartTime
	}
	if update.EndTime != "" {
		cfg.EndTime = update.EndTime
	}

	start, _ := timeutil.ParseClock(cfg.StartTime)
	end, _ := timeutil.ParseClock(cfg.EndTime)
	if end <= start {
		return nil, apperrors.InvalidInput("End time must be after start time")
	}

	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, err
	}

	s.publishChange(ctx)
	s.log.Info("configuration updated",
		"slot_duration_min", cfg.SlotDurationMin,
		"start_time", cfg.StartTime,
		"end_time", cfg.EndTime)
	return cfg, nil
}

func (s *service) BlockSlot(ctx context.Context, session *model.Session, slot string) (*model.Config, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if _, err := timeutil.ParseClock(slot); err != nil {
		return nil, apperrors.InvalidInput("Invalid slot time, expected HH:MM")
	}

	cfg := s.Get(ctx)
	if cfg.IsBlocked(slot) {
		// Blocking an already-blocked slot is a no-op.
		return cfg, nil
	}

	cfg.BlockedSlots = append(cfg.BlockedSlots, slot)
	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, err
	}

	s.publishChange(ctx)
	s.log.Info("slot blocked", "slot", slot)
	return cfg, nil
}

func (s *service) UnblockSlot(ctx context.Context, session *model.Session, slot string) (*model.Config, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	cfg := s.Get(ctx)
	if !cfg.IsBlocked(slot) {
		return cfg, nil
	}

	kept := make([]string, 0, len(cfg.BlockedSlots))
	for _, b := range cfg.BlockedSlots {
		if b != slot {
			kept = append(kept, b)
		}
	}
	cfg.BlockedSlots = kept

	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, err
	}

	s.publishChange(ctx)
	s.log.Info("slot unblocked", "slot", slot)
	return cfg, nil
}

func (s *service) publishChange(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	change := events.Change{Kind: events.KindConfigUpdated}
	if err := s.publisher.PublishChange(ctx, change); err != nil {
		s.log.Warn("failed to publish configuration change", "error", err)
	}
}

func requireAdmin(session *model.Session) error {
	if session == nil {
		return apperrors.Unauthorized("Authentication required")
	}
	if !session.Admin {
		return apperrors.Forbidden("Administrator access required")
	}
	return nil
}
