package service

import (
	"context"
	"time"

	"github.com/sangkips/salon-api/internal/domain/repository"
)

const exportDateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(exportDateLayout)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// branchNames maps branch IDs to names for exports.
func branchNames(ctx context.Context, repo repository.BranchRepository) (map[string]string, error) {
	branches, err := repo.List(ctx, repository.OrderBy{})
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(branches))
	for _, b := range branches {
		names[b.ID] = b.Name
	}
	return names, nil
}
