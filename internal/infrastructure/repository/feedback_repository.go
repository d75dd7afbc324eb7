package repository

import (
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
)

const feedbacksCollection = "feedbacks"

type feedbackRepository struct {
	*collection[entity.Feedback, *entity.Feedback]
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(client *firestore.Client) domainRepo.FeedbackRepository {
	return &feedbackRepository{
		collection: newCollection[entity.Feedback](client, feedbacksCollection, mapper[entity.Feedback]{
			encode: encodeFeedback,
			decode: decodeFeedback,
		}),
	}
}

func encodeFeedback(f *entity.Feedback) map[string]interface{} {
	return map[string]interface{}{
		"branchId":     f.BranchID,
		"clientId":     f.ClientID,
		"customerName": f.CustomerName,
		"email":        f.Email,
		"service":      f.Service,
		"staffName":    f.StaffName,
		"rating":       f.Rating,
		"comment":      f.Comment,
		"response":     f.Response,
		"status":       f.Status.String(),
	}
}

func decodeFeedback(data map[string]interface{}) entity.Feedback {
	return entity.Feedback{
		BranchID:     stringField(data, "branchId"),
		ClientID:     stringField(data, "clientId"),
		CustomerName: stringField(data, "customerName"),
		Email:        stringField(data, "email"),
		Service:      stringField(data, "service"),
		StaffName:    stringField(data, "staffName"),
		Rating:       intField(data, "rating"),
		Comment:      stringField(data, "comment"),
		Response:     stringField(data, "response"),
		Status:       enum.FeedbackStatus(strings.ToLower(stringField(data, "status"))),
	}
}
