package services

import (
	"context"
	"slices"
	"time"

	"github.com/yeremiapane/dineflow/models"
	"github.com/yeremiapane/dineflow/repository"
	"github.com/yeremiapane/dineflow/utils"
)

const maxGuests = 20

type CreateReservationInput struct {
	Date   string
	Time   string
	Guests int
	Phone  *string
}

type UpdateReservationInput struct {
	Date   *string
	Time   *string
	Guests *int
	Phone  *string
}

type ReservationService struct {
	Reservations repository.ReservationRepository
	// Now is the clock used for the "not in the past" rule.
	Now func() time.Time

	locks slotLocks
}

func NewReservationService(reservations repository.ReservationRepository) *ReservationService {
	return &ReservationService{
		Reservations: reservations,
		Now:          time.Now,
	}
}

// normalizeSlot parses date and time and returns them in their stored form.
// Dates before today are rejected.
func (s *ReservationService) normalizeSlot(date, clock string) (string, string, error) {
	loc := s.Now().Location()

	d, err := time.ParseInLocation(models.DateLayout, date, loc)
	if err != nil {
		return "", "", utils.ErrValidation("date must be formatted as YYYY-MM-DD")
	}
	t, err := time.Parse(models.TimeLayout, clock)
	if err != nil {
		return "", "", utils.ErrValidation("time must be formatted as HH:MM")
	}

	now := s.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if d.Before(today) {
		return "", "", utils.ErrValidation("reservation date cannot be in the past")
	}

	return d.Format(models.DateLayout), t.Format(models.TimeLayout), nil
}

func validateGuests(guests int) error {
	if guests < 1 || guests > maxGuests {
		return utils.ErrValidation("guests must be between 1 and %d", maxGuests)
	}
	return nil
}

// Available returns the free tables for a slot.
func (s *ReservationService) Available(ctx context.Context, date, clock string) ([]int, error) {
	date, clock, err := s.normalizeSlot(date, clock)
	if err != nil {
		return nil, err
	}
	return s.freeTables(ctx, date, clock, 0)
}

// AvailableForUpdate is Available with the reservation's own table ignored.
func (s *ReservationService) AvailableForUpdate(ctx context.Context, actor Actor, id uint, date, clock string) ([]int, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	date, clock, err := s.normalizeSlot(date, clock)
	if err != nil {
		return nil, err
	}
	return s.freeTables(ctx, date, clock, id)
}

func (s *ReservationService) freeTables(ctx context.Context, date, clock string, excludeID uint) ([]int, error) {
	used, err := s.Reservations.UsedTables(ctx, date, clock, excludeID)
	if err != nil {
		return nil, utils.ErrInternal("failed to check availability", err)
	}
	return FreeTables(used, models.TableCount), nil
}

// Create assigns the lowest free table in the slot.
func (s *ReservationService) Create(ctx context.Context, actor Actor, in CreateReservationInput) (*models.Reservation, error) {
	date, clock, err := s.normalizeSlot(in.Date, in.Time)
	if err != nil {
		return nil, err
	}
	if err := validateGuests(in.Guests); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(slot{date, clock})
	defer unlock()

	used, err := s.Reservations.UsedTables(ctx, date, clock, 0)
	if err != nil {
		return nil, utils.ErrInternal("failed to check availability", err)
	}
	table, ok := LowestFreeTable(used, models.TableCount)
	if !ok {
		return nil, utils.ErrConflict("no tables available on %s at %s", date, clock)
	}

	reservation := &models.Reservation{
		UserID:      actor.UserID,
		TableNumber: table,
		Date:        date,
		Time:        clock,
		Guests:      in.Guests,
		Phone:       trimmedOrNil(in.Phone),
		Status:      models.ReservationConfirmed,
	}
	if err := s.Reservations.Create(ctx, reservation); err != nil {
		return nil, utils.ErrInternal("failed to create reservation", err)
	}

	utils.InfoLogger.Printf("Reservation %d: table %d on %s %s for user %d", reservation.ID, table, date, clock, actor.UserID)
	return s.load(ctx, reservation.ID)
}

func (s *ReservationService) Get(ctx context.Context, actor Actor, id uint) (*models.Reservation, error) {
	reservation, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(actor, reservation.UserID, "reservation"); err != nil {
		return nil, err
	}
	return reservation, nil
}

func (s *ReservationService) List(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, error) {
	if filter.Status != "" && filter.Status != models.ReservationConfirmed && filter.Status != models.ReservationCancelled {
		return nil, utils.ErrValidation("unknown status %q", filter.Status)
	}
	reservations, err := s.Reservations.List(ctx, filter)
	if err != nil {
		return nil, utils.ErrInternal("failed to list reservations", err)
	}
	return reservations, nil
}

func (s *ReservationService) Mine(ctx context.Context, actor Actor) ([]models.Reservation, error) {
	uid := actor.UserID
	return s.List(ctx, repository.ReservationFilter{UserID: &uid})
}

// Update keeps the current table when it is still free in the new slot and
// otherwise moves the reservation to the lowest free table. The write only
// lands if the row is still confirmed in the slot and table it was read with.
func (s *ReservationService) Update(ctx context.Context, actor Actor, id uint, in UpdateReservationInput) (*models.Reservation, error) {
	current, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if current.Status == models.ReservationCancelled {
		return nil, utils.ErrValidation("a cancelled reservation cannot be updated")
	}

	next := *current
	if in.Guests != nil {
		if err := validateGuests(*in.Guests); err != nil {
			return nil, err
		}
		next.Guests = *in.Guests
	}
	if in.Phone != nil {
		next.Phone = trimmedOrNil(in.Phone)
	}

	if in.Date != nil {
		next.Date = *in.Date
	}
	if in.Time != nil {
		next.Time = *in.Time
	}
	if in.Date != nil || in.Time != nil {
		next.Date, next.Time, err = s.normalizeSlot(next.Date, next.Time)
		if err != nil {
			return nil, err
		}
	}

	unlock := s.locks.lock(slot{current.Date, current.Time}, slot{next.Date, next.Time})
	defer unlock()

	if next.Date != current.Date || next.Time != current.Time {
		used, err := s.Reservations.UsedTables(ctx, next.Date, next.Time, current.ID)
		if err != nil {
			return nil, utils.ErrInternal("failed to check availability", err)
		}
		if slices.Contains(used, next.TableNumber) {
			table, ok := LowestFreeTable(used, models.TableCount)
			if !ok {
				return nil, utils.ErrConflict("no tables available on %s at %s", next.Date, next.Time)
			}
			next.TableNumber = table
		}
	}

	updated, err := s.Reservations.UpdateIfUnchanged(ctx, current, &next)
	if err != nil {
		return nil, utils.ErrInternal("failed to update reservation", err)
	}
	if !updated {
		return nil, utils.ErrConflict("reservation %d was changed by another request, reload and try again", id)
	}
	return s.load(ctx, id)
}

func (s *ReservationService) Cancel(ctx context.Context, actor Actor, id uint) (*models.Reservation, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}

	cancelled, err := s.Reservations.Cancel(ctx, id)
	if err != nil {
		return nil, utils.ErrInternal("failed to cancel reservation", err)
	}
	if !cancelled {
		return nil, utils.ErrConflict("reservation %d is already cancelled", id)
	}
	utils.InfoLogger.Printf("Reservation %d cancelled by user %d", id, actor.UserID)
	return s.load(ctx, id)
}

func (s *ReservationService) load(ctx context.Context, id uint) (*models.Reservation, error) {
	reservation, err := s.Reservations.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "reservation", id)
	}
	return reservation, nil
}
