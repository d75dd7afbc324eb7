package repository

import (
	"cloud.google.com/go/firestore"

	"github.com/sangkips/salon-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
)

const branchesCollection = "branches"

type branchRepository struct {
	*collection[entity.Branch, *entity.Branch]
}

// NewBranchRepository creates a new branch repository
func NewBranchRepository(client *firestore.Client) domainRepo.BranchRepository {
	return &branchRepository{
		collection: newCollection[entity.Branch](client, branchesCollection, mapper[entity.Branch]{
			encode: encodeBranch,
			decode: decodeBranch,
		}),
	}
}

func encodeBranch(b *entity.Branch) map[string]interface{} {
	return map[string]interface{}{
		"name":    b.Name,
		"address": b.Address,
		"phone":   b.Phone,
		"email":   b.Email,
		"manager": b.Manager,
		"status":  b.Status.String(),
	}
}

func decodeBranch(data map[string]interface{}) entity.Branch {
	return entity.Branch{
		Name:    stringField(data, "name"),
		Address: stringField(data, "address"),
		Phone:   stringField(data, "phone"),
		Email:   stringField(data, "email"),
		Manager: stringField(data, "manager"),
		Status:  recordStatus(data),
	}
}
