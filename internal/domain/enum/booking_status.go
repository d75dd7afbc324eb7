package enum

// BookingStatus represents the state of an appointment
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusNoShow    BookingStatus = "no-show"
)

var bookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCompleted,
	BookingStatusCancelled,
	BookingStatusNoShow,
}

func BookingStatuses() []BookingStatus {
	return append([]BookingStatus(nil), bookingStatuses...)
}

func (s BookingStatus) String() string {
	return string(s)
}

func (s BookingStatus) IsValid() bool {
	_, ok := match(bookingStatuses, string(s))
	return ok
}

// IsFinal reports whether no further transition is allowed.
func (s BookingStatus) IsFinal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow:
		return true
	}
	return false
}

func ParseBookingStatus(s string) (BookingStatus, bool) {
	return match(bookingStatuses, s)
}

func (s *BookingStatus) UnmarshalJSON(data []byte) error {
	return unmarshal(data, bookingStatuses, "booking status", s)
}
