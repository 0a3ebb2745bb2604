package usecase

import (
	"bytes"
	"context"
	"strings"

	"skills-matrix/internal/domain/matrix"
	"skills-matrix/internal/export"

	"github.com/google/uuid"
)

type ExportUsecase interface {
	ExportDepartment(ctx context.Context, departmentID uuid.UUID) (Workbook, error)
}

type Workbook struct {
	Filename    string
	ContentType string
	Data        []byte
}

type departmentViewer interface {
	GetDepartmentView(ctx context.Context, departmentID uuid.UUID) (matrix.DepartmentView, error)
}

type Export struct {
	views departmentViewer
}

func NewExportUsecase(views departmentViewer) *Export {
	return &Export{views: views}
}

func (u *Export) ExportDepartment(ctx context.Context, departmentID uuid.UUID) (Workbook, error) {
	v, err := u.views.GetDepartmentView(ctx, departmentID)
	if err != nil {
		return Workbook{}, err
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, v); err != nil {
		return Workbook{}, err
	}
	return Workbook{
		Filename:    filename(v.Name),
		ContentType: export.ContentTypeXLSX,
		Data:        buf.Bytes(),
	}, nil
}

func filename(department string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(department)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "department"
	}
	return name + "-skills-matrix.xlsx"
}
