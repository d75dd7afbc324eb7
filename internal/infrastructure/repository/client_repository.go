package repository

import (
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
)

const clientsCollection = "clients"

type clientRepository struct {
	*collection[entity.Client, *entity.Client]
}

// NewClientRepository creates a new client repository
func NewClientRepository(client *firestore.Client) domainRepo.ClientRepository {
	return &clientRepository{
		collection: newCollection[entity.Client](client, clientsCollection, mapper[entity.Client]{
			encode: encodeClient,
			decode: decodeClient,
		}),
	}
}

func encodeClient(c *entity.Client) map[string]interface{} {
	return map[string]interface{}{
		"name":              c.Name,
		"email":             c.Email,
		"phone":             c.Phone,
		"address":           c.Address,
		"notes":             c.Notes,
		"preferredBranchId": c.PreferredBranchID,
		"status":            c.Status.String(),
		"totalVisits":       c.TotalVisits,
		"totalSpent":        money(c.TotalSpent),
		"lastVisit":         optionalTime(c.LastVisit),
	}
}

func decodeClient(data map[string]interface{}) entity.Client {
	return entity.Client{
		Name:              stringField(data, "name"),
		Email:             stringField(data, "email"),
		Phone:             stringField(data, "phone"),
		Address:           stringField(data, "address"),
		Notes:             stringField(data, "notes"),
		PreferredBranchID: stringField(data, "preferredBranchId"),
		Status:            enum.ClientStatus(strings.ToLower(stringField(data, "status"))),
		TotalVisits:       intField(data, "totalVisits"),
		TotalSpent:        decimalField(data, "totalSpent"),
		LastVisit:         timePtrField(data, "lastVisit"),
	}
}
