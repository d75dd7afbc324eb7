package repository

import (
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
)

const bookingsCollection = "bookings"

type bookingRepository struct {
	*collection[entity.Booking, *entity.Booking]
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(client *firestore.Client) domainRepo.BookingRepository {
	return &bookingRepository{
		collection: newCollection[entity.Booking](client, bookingsCollection, mapper[entity.Booking]{
			encode: encodeBooking,
			decode: decodeBooking,
		}),
	}
}

func encodeBooking(b *entity.Booking) map[string]interface{} {
	return map[string]interface{}{
		"reference":    b.Reference,
		"branchId":     b.BranchID,
		"clientId":     b.ClientID,
		"customerName": b.CustomerName,
		"phone":        b.Phone,
		"email":        b.Email,
		"serviceId":    b.ServiceID,
		"serviceName":  b.ServiceName,
		"staffName":    b.StaffName,
		"price":        money(b.Price),
		"duration":     b.Duration,
		"startsAt":     b.StartsAt.UTC(),
		"status":       b.Status.String(),
		"notes":        b.Notes,
	}
}

func decodeBooking(data map[string]interface{}) entity.Booking {
	return entity.Booking{
		Reference:    stringField(data, "reference"),
		BranchID:     stringField(data, "branchId"),
		ClientID:     stringField(data, "clientId"),
		CustomerName: stringField(data, "customerName"),
		Phone:        stringField(data, "phone"),
		Email:        stringField(data, "email"),
		ServiceID:    stringField(data, "serviceId"),
		ServiceName:  stringField(data, "serviceName"),
		StaffName:    stringField(data, "staffName"),
		Price:        decimalField(data, "price"),
		Duration:     intField(data, "duration"),
		StartsAt:     timeField(data, "startsAt"),
		Status:       enum.BookingStatus(strings.ToLower(stringField(data, "status"))),
		Notes:        stringField(data, "notes"),
	}
}
