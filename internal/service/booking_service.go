package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/karunavilla/booking-system/internal/interval"
	"github.com/karunavilla/booking-system/internal/metrics"
	"github.com/karunavilla/booking-system/internal/models"
	"github.com/karunavilla/booking-system/internal/repository"
	"github.com/karunavilla/booking-system/pkg/rabbitmq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrRoomUnavailable = errors.New("room is not available for the selected dates")
	ErrInvalidStay     = errors.New("invalid stay: check-out must be after check-in and rate must be positive")
)

// Charge is one miscellaneous line item added on top of the nightly total.
type Charge struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type CreateBookingInput struct {
	FullName          string
	Email             string
	MobileNumber      string
	RoomNumber        string
	CheckIn           time.Time
	CheckOut          time.Time
	RatePerNight      decimal.Decimal
	Source            string
	InternalNotes     string
	AdvanceAmount     *decimal.Decimal
	PaymentMethod     string
	AdditionalCharges []Charge
}

// UpdateBookingInput carries only the fields being changed; nil fields keep
// their current values.
type UpdateBookingInput struct {
	FullName          *string
	Email             *string
	MobileNumber      *string
	RoomNumber        *string
	CheckIn           *time.Time
	CheckOut          *time.Time
	RatePerNight      *decimal.Decimal
	Source            *string
	InternalNotes     *string
	AdvanceAmount     *decimal.Decimal
	PaymentMethod     *string
	AdditionalCharges []Charge
}

type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id uint, in UpdateBookingInput) (*models.Booking, error)
	CancelBooking(ctx context.Context, id uint) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id uint) error
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	AvailableRooms(ctx context.Context, start, end time.Time) ([]models.Room, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	roomRepo    repository.RoomRepository
	guestRepo   repository.GuestRepository
	publisher   *rabbitmq.Publisher
	now         func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	roomRepo repository.RoomRepository,
	guestRepo repository.GuestRepository,
	publisher *rabbitmq.Publisher,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		guestRepo:   guestRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	checkIn := interval.NormalizeDay(in.CheckIn)
	checkOut := interval.NormalizeDay(in.CheckOut)
	if !checkOut.After(checkIn) || !in.RatePerNight.IsPositive() {
		return nil, ErrInvalidStay
	}

	total := stayTotal(in.RatePerNight, checkIn, checkOut, in.AdditionalCharges)
	if total.IsNegative() {
		return nil, ErrInvalidStay
	}

	var result *models.Booking

	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the room row — serializes concurrent check-then-book
		// sequences for this room only.
		room, err := s.roomRepo.FindByNumberForUpdate(ctx, tx, in.RoomNumber)
		if err != nil {
			return ErrRoomNotFound
		}

		overlapping, err := s.bookingRepo.FindConfirmedOverlappingForRoom(ctx, tx, room.ID, checkIn, checkOut, 0)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return ErrRoomUnavailable
		}

		guest := &models.Guest{
			FullName:     in.FullName,
			Email:        in.Email,
			MobileNumber: in.MobileNumber,
		}
		if err := s.guestRepo.Save(ctx, tx, guest); err != nil {
			return err
		}

		booking := &models.Booking{
			Reference:     uuid.NewString(),
			GuestID:       guest.ID,
			RoomID:        room.ID,
			CheckIn:       checkIn,
			CheckOut:      checkOut,
			Source:        in.Source,
			InternalNotes: in.InternalNotes,
			RatePerNight:  in.RatePerNight,
			TotalAmount:   total,
			Status:        models.StatusConfirmed,
		}

		if in.AdvanceAmount != nil {
			booking.Payments = append(booking.Payments, models.Payment{
				Kind:          models.PaymentAdvance,
				AmountPaid:    *in.AdvanceAmount,
				PendingAmount: total.Sub(*in.AdvanceAmount),
				Method:        in.PaymentMethod,
				PaidAt:        s.now(),
				Extras:        marshalCharges(in.AdditionalCharges),
			})
		}

		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}

		// Display flag only; availability is always decided by the overlap
		// query, never by this field.
		room.Status = models.RoomBooked
		if err := s.roomRepo.Save(ctx, tx, room); err != nil {
			return err
		}

		booking.Guest = guest
		booking.Room = room
		result = booking
		return nil
	})
	if err != nil {
		if isExclusionViolation(err) {
			err = ErrRoomUnavailable
		}
		if errors.Is(err, ErrRoomUnavailable) {
			metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	s.publish("booking.created", result)
	return result, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, id uint, in UpdateBookingInput) (*models.Booking, error) {
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if in.FullName != nil || in.Email != nil || in.MobileNumber != nil {
			if in.FullName != nil {
				booking.Guest.FullName = *in.FullName
			}
			if in.Email != nil {
				booking.Guest.Email = *in.Email
			}
			if in.MobileNumber != nil {
				booking.Guest.MobileNumber = *in.MobileNumber
			}
			if err := s.guestRepo.Save(ctx, tx, booking.Guest); err != nil {
				return err
			}
		}

		// Work out the proposed state before validating anything.
		roomChanged := in.RoomNumber != nil && *in.RoomNumber != booking.Room.RoomNumber
		datesChanged := in.CheckIn != nil || in.CheckOut != nil

		proposedRoom := booking.Room
		proposedCheckIn := booking.CheckIn
		proposedCheckOut := booking.CheckOut
		if in.CheckIn != nil {
			proposedCheckIn = interval.NormalizeDay(*in.CheckIn)
		}
		if in.CheckOut != nil {
			proposedCheckOut = interval.NormalizeDay(*in.CheckOut)
		}
		if !proposedCheckOut.After(proposedCheckIn) {
			return ErrInvalidStay
		}

		if roomChanged || datesChanged {
			number := booking.Room.RoomNumber
			if roomChanged {
				number = *in.RoomNumber
			}
			proposedRoom, err = s.roomRepo.FindByNumberForUpdate(ctx, tx, number)
			if err != nil {
				return ErrRoomNotFound
			}

			overlapping, err := s.bookingRepo.FindConfirmedOverlappingForRoom(
				ctx, tx, proposedRoom.ID, proposedCheckIn, proposedCheckOut, booking.ID)
			if err != nil {
				return err
			}
			if len(overlapping) > 0 {
				return ErrRoomUnavailable
			}
		}

		rate := booking.RatePerNight
		if in.RatePerNight != nil {
			if !in.RatePerNight.IsPositive() {
				return ErrInvalidStay
			}
			rate = *in.RatePerNight
		}

		// Recompute the total when rate, dates, or charges move. Absent an
		// explicit charge list the previous charge sum is carried forward
		// (it is the remainder of the old total over the old nightly part).
		total := booking.TotalAmount
		if in.RatePerNight != nil || datesChanged || in.AdditionalCharges != nil {
			chargeSum := booking.TotalAmount.Sub(
				booking.RatePerNight.Mul(decimal.NewFromInt(int64(interval.Nights(booking.CheckIn, booking.CheckOut)))))
			if in.AdditionalCharges != nil {
				chargeSum = decimal.Zero
				for _, c := range in.AdditionalCharges {
					chargeSum = chargeSum.Add(c.Amount)
				}
			}
			total = rate.Mul(decimal.NewFromInt(int64(interval.Nights(proposedCheckIn, proposedCheckOut)))).Add(chargeSum)
			if total.IsNegative() {
				return ErrInvalidStay
			}
		}

		if in.AdvanceAmount != nil {
			advance := booking.AdvancePayment()
			if advance == nil {
				advance = &models.Payment{
					BookingID: booking.ID,
					Kind:      models.PaymentAdvance,
					PaidAt:    s.now(),
				}
			}
			advance.AmountPaid = *in.AdvanceAmount
			advance.PendingAmount = total.Sub(*in.AdvanceAmount)
			if in.PaymentMethod != nil {
				advance.Method = *in.PaymentMethod
			}
			if in.AdditionalCharges != nil {
				advance.Extras = marshalCharges(in.AdditionalCharges)
			}
			if err := s.bookingRepo.SavePayment(ctx, tx, advance); err != nil {
				return err
			}
		}

		// Flags move only after the conflict check has passed.
		if roomChanged {
			oldRoom := booking.Room
			oldRoom.Status = models.RoomAvailable
			if err := s.roomRepo.Save(ctx, tx, oldRoom); err != nil {
				return err
			}
			proposedRoom.Status = models.RoomBooked
			if err := s.roomRepo.Save(ctx, tx, proposedRoom); err != nil {
				return err
			}
		}

		booking.RoomID = proposedRoom.ID
		booking.Room = proposedRoom
		booking.CheckIn = proposedCheckIn
		booking.CheckOut = proposedCheckOut
		booking.RatePerNight = rate
		booking.TotalAmount = total
		if in.Source != nil {
			booking.Source = *in.Source
		}
		if in.InternalNotes != nil {
			booking.InternalNotes = *in.InternalNotes
		}

		// Save the bare row; guest and payments were persisted above.
		bare := *booking
		bare.Guest = nil
		bare.Room = nil
		bare.Payments = nil
		return s.bookingRepo.Save(ctx, tx, &bare)
	})
	if err != nil {
		if isExclusionViolation(err) {
			err = ErrRoomUnavailable
		}
		if errors.Is(err, ErrRoomUnavailable) {
			metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	refreshed, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish("booking.updated", refreshed)
	return refreshed, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var result *models.Booking

	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if booking.Status == models.StatusCancelled {
			return errors.New("booking is already cancelled")
		}

		booking.Status = models.StatusCancelled
		bare := *booking
		bare.Guest = nil
		bare.Room = nil
		bare.Payments = nil
		if err := s.bookingRepo.Save(ctx, tx, &bare); err != nil {
			return err
		}

		if booking.Room.Status == models.RoomBooked {
			booking.Room.Status = models.RoomAvailable
			if err := s.roomRepo.Save(ctx, tx, booking.Room); err != nil {
				return err
			}
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("booking.cancelled", result)
	return result, nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, id uint) error {
	var deleted *models.Booking

	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if err := s.bookingRepo.Delete(ctx, tx, booking); err != nil {
			return err
		}

		if booking.Room.Status == models.RoomBooked {
			booking.Room.Status = models.RoomAvailable
			if err := s.roomRepo.Save(ctx, tx, booking.Room); err != nil {
				return err
			}
		}

		// No orphan guests: remove the guest with their last booking.
		count, err := s.guestRepo.CountBookings(ctx, tx, booking.GuestID)
		if err != nil {
			return err
		}
		if count == 0 {
			if err := s.guestRepo.Delete(ctx, tx, booking.Guest); err != nil {
				return err
			}
		}

		deleted = booking
		return nil
	})
	if err != nil {
		return err
	}

	s.publish("booking.deleted", deleted)
	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return s.bookingRepo.FindAll(ctx)
}

// AvailableRooms returns every room with no confirmed booking overlapping
// [start, end). Pure read of current store contents; no caching.
func (s *bookingService) AvailableRooms(ctx context.Context, start, end time.Time) ([]models.Room, error) {
	start = interval.NormalizeDay(start)
	end = interval.NormalizeDay(end)
	if !end.After(start) {
		return nil, ErrInvalidStay
	}

	rooms, err := s.roomRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.bookingRepo.FindConfirmedOverlapping(ctx, start, end)
	if err != nil {
		return nil, err
	}

	blocked := make(map[uint]struct{}, len(overlapping))
	for _, b := range overlapping {
		blocked[b.RoomID] = struct{}{}
	}

	free := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if _, taken := blocked[room.ID]; !taken {
			free = append(free, room)
		}
	}
	return free, nil
}

func (s *bookingService) publish(routingKey string, booking *models.Booking) {
	if s.publisher != nil && booking != nil {
		_ = s.publisher.Publish(routingKey, booking)
	}
}

func stayTotal(rate decimal.Decimal, checkIn, checkOut time.Time, charges []Charge) decimal.Decimal {
	total := rate.Mul(decimal.NewFromInt(int64(interval.Nights(checkIn, checkOut))))
	for _, c := range charges {
		total = total.Add(c.Amount)
	}
	return total
}

func marshalCharges(charges []Charge) datatypes.JSON {
	if len(charges) == 0 {
		return nil
	}
	b, err := json.Marshal(charges)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

// isExclusionViolation detects the booking-range exclusion constraint
// firing (SQLSTATE 23P01). It is the store-boundary backstop when two
// transactions race past the row lock on different connections.
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}
