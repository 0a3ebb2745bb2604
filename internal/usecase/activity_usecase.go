package usecase

import (
	"context"

	"skills-matrix/internal/domain/matrix"
	"skills-matrix/internal/repository"
)

const (
	DefaultActivityLimit = 100
	MaxActivityLimit     = 500
)

type ActivityUsecase interface {
	ListRecentActivity(ctx context.Context, limit int) ([]matrix.ActivityRecord, error)
}

type Activity struct {
	repo repository.ActivityRepository
}

func NewActivityUsecase(repo repository.ActivityRepository) *Activity {
	return &Activity{repo: repo}
}

func (u *Activity) ListRecentActivity(ctx context.Context, limit int) ([]matrix.ActivityRecord, error) {
	items, err := u.repo.ListRecentActivity(ctx, ClampActivityLimit(limit))
	if err != nil {
		return nil, storageError(err)
	}
	return items, nil
}

func ClampActivityLimit(limit int) int {
	if limit <= 0 {
		return DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		return MaxActivityLimit
	}
	return limit
}
