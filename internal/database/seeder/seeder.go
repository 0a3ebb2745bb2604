package seeder

import (
	"context"

	"skills-matrix/internal/usecase"
)

// Seeders write through the matrix usecase so the same data lands in any
// storage driver and shows up in the activity log.
type Seeder interface {
	Name() string
	Run(ctx context.Context, uc usecase.MatrixUsecase) error
}
