package seeder

import (
	"context"
	"fmt"

	"skills-matrix/internal/usecase"
)

type Runner struct {
	Seeders []Seeder
}

func (r Runner) Run(ctx context.Context, uc usecase.MatrixUsecase) error {
	if uc == nil {
		return fmt.Errorf("nil matrix usecase")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, uc); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
	}
	return nil
}
