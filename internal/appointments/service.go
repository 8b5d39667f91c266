package appointments

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	dbmongo "bookly/pkg/db/mongo"
	apperrors "bookly/pkg/errors"
	"bookly/pkg/events"
	"bookly/pkg/logger"
	"bookly/pkg/model"
	"bookly/pkg/sanitizer"
	"bookly/pkg/slots"
	"bookly/pkg/timeutil"
)

// ConfigProvider supplies the active booking configuration. Reads never
// fail; the provider degrades to defaults internally.
type ConfigProvider interface {
	Get(ctx context.Context) *model.Config
}

type BookingRequest struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Name  string `json:"customer_name"`
	Phone string `json:"customer_phone"`
}

type Service interface {
	// GetSlotsForDate returns every slot of the working day with its
	// availability. The date may be given in either display (DD/MM/YYYY) or
	// canonical (YYYY-MM-DD) form.
	GetSlotsForDate(ctx context.Context, date string) ([]model.TimeSlot, error)

	// Book creates an appointment after re-deriving the slot view and
	// re-checking the slot inside a transaction.
	Book(ctx context.Context, req *BookingRequest) (*model.Appointment, error)

	List(ctx context.Context, session *model.Session, date string) ([]*model.Appointment, error)
	Delete(ctx context.Context, session *model.Session, id string) error
}

type service struct {
	repo      Repository
	holds     HoldRepository
	txManager dbmongo.TransactionManager
	configs   ConfigProvider
	publisher events.Publisher
	validate  *validator.Validate
	log       *logger.Logger
}

func NewService(
	repo Repository,
	holds HoldRepository,
	txManager dbmongo.TransactionManager,
	configs ConfigProvider,
	publisher events.Publisher,
	validate *validator.Validate,
	log *logger.Logger,
) Service {
	return &service{
		repo:      repo,
		holds:     holds,
		txManager: txManager,
		configs:   configs,
		publisher: publisher,
		validate:  validate,
		log:       log,
	}
}

func (s *service) GetSlotsForDate(ctx context.Context, date string) ([]model.TimeSlot, error) {
	canonical, err := timeutil.NormalizeDate(strings.TrimSpace(date))
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid date, expected DD/MM/YYYY or YYYY-MM-DD")
	}

	cfg := s.configs.Get(ctx)

	// The slot view is read-only. A failed appointment read degrades to an
	// empty booked set rather than hiding the whole day.
	appointments, err := s.repo.FindByDate(ctx, canonical)
	if err != nil {
		s.log.Warn("failed to load appointments for slot view", "date", canonical, "error", err)
		appointments = nil
	}

	return slots.FromConfig(cfg, bookedTimes(appointments))
}

func (s *service) Book(ctx context.Context, req *BookingRequest) (*model.Appointment, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Missing request body")
	}

	if err := checkRequiredFields(req); err != nil {
		return nil, err
	}

	canonical, err := timeutil.NormalizeDate(strings.TrimSpace(req.Date))
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid date, expected DD/MM/YYYY or YYYY-MM-DD")
	}

	appointment := &model.Appointment{
		ID:            uuid.NewString(),
		Date:          canonical,
		Time:          strings.TrimSpace(req.Time),
		CustomerName:  sanitizer.NormalizeName(req.Name),
		CustomerPhone: sanitizer.NormalizePhone(req.Phone),
		Status:        model.StatusBooked,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.validate.Struct(appointment); err != nil {
		return nil, apperrors.Validation("Invalid booking request", map[string]any{
			"validation": err.Error(),
		})
	}

	if err := s.checkSlotAvailable(ctx, appointment.Date, appointment.Time); err != nil {
		return nil, err
	}

	if err := s.holds.Acquire(ctx, appointment.Date, appointment.Time, appointment.ID); err != nil {
		if err == ErrHoldHeld {
			return nil, apperrors.SlotUnavailable("Slot is being booked by another request")
		}
		return nil, err
	}
	defer func() {
		if err := s.holds.Release(ctx, appointment.Date, appointment.Time, appointment.ID); err != nil {
			s.log.Warn("failed to release slot hold", "date", appointment.Date, "time", appointment.Time, "error", err)
		}
	}()

	err = s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// Authoritative re-check under the transaction snapshot. The view
		// check above can always be stale.
		taken, err := s.repo.ExistsBookedAt(sessCtx, appointment.Date, appointment.Time)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict("Slot was booked by another customer")
		}

		if err := s.repo.Create(sessCtx, appointment); err != nil {
			if err == ErrSlotTaken {
				return apperrors.Conflict("Slot was booked by another customer")
			}
			return err
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to book appointment", err)
	}

	s.publishChange(ctx, events.Change{
		Kind:          events.KindAppointmentBooked,
		Date:          appointment.Date,
		Time:          appointment.Time,
		AppointmentID: appointment.ID,
	})

	s.log.Info("appointment booked",
		"appointment_id", appointment.ID,
		"date", appointment.Date,
		"time", appointment.Time)
	return appointment, nil
}

func (s *service) List(ctx context.Context, session *model.Session, date string) ([]*model.Appointment, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	if strings.TrimSpace(date) == "" {
		return s.repo.FindAll(ctx)
	}

	canonical, err := timeutil.NormalizeDate(strings.TrimSpace(date))
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid date, expected DD/MM/YYYY or YYYY-MM-DD")
	}
	return s.repo.FindByDate(ctx, canonical)
}

func (s *service) Delete(ctx context.Context, session *model.Session, id string) error {
	if err := requireAdmin(session); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		if err == ErrNotFound {
			return apperrors.NotFoundWithID("Appointment", id)
		}
		return err
	}

	s.publishChange(ctx, events.Change{
		Kind:          events.KindAppointmentDeleted,
		Date:          deleted.Date,
		Time:          deleted.Time,
		AppointmentID: deleted.ID,
	})

	s.log.Info("appointment deleted",
		"appointment_id", deleted.ID,
		"date", deleted.Date,
		"time", deleted.Time)
	return nil
}

// checkSlotAvailable rebuilds the slot view server side and rejects slots the
// customer could not legitimately have seen as open.
func (s *service) checkSlotAvailable(ctx context.Context, date, clock string) error {
	cfg := s.configs.Get(ctx)

	appointments, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		// Unlike the read path, booking cannot degrade: an unknown booked
		// set would let double bookings through the view check.
		return err
	}

	daySlots, err := slots.FromConfig(cfg, bookedTimes(appointments))
	if err != nil {
		return apperrors.Internal("Failed to derive slot view", err)
	}

	for _, slot := range daySlots {
		if slot.Time != clock {
			continue
		}
		if !slot.Available {
			return apperrors.SlotUnavailable("Slot is not available")
		}
		return nil
	}
	return apperrors.SlotUnavailable("Time is outside the working day")
}

func (s *service) publishChange(ctx context.Context, change events.Change) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, change); err != nil {
		s.log.Warn("failed to publish appointment change", "kind", change.Kind, "error", err)
	}
}

func checkRequiredFields(req *BookingRequest) error {
	missing := []string{}
	if strings.TrimSpace(req.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(req.Time) == "" {
		missing = append(missing, "time")
	}
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(req.Phone) == "" {
		missing = append(missing, "customer_phone")
	}
	if len(missing) > 0 {
		return apperrors.Validation("Missing required fields", map[string]any{
			"missing_fields": missing,
		})
	}
	return nil
}

func bookedTimes(appointments []*model.Appointment) []string {
	times := make([]string, 0, len(appointments))
	for _, a := range appointments {
		if a.Status == model.StatusBooked {
			times = append(times, a.Time)
		}
	}
	return times
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
