// Package export renders department matrices as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"

	"skills-matrix/internal/domain/matrix"

	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Excel caps sheet names at 31 characters and forbids a handful of symbols.
const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(
	":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "(", "]", ")",
)

func SheetName(department string) string {
	name := strings.TrimSpace(sheetNameReplacer.Replace(department))
	name = strings.Trim(name, "'")
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	if name == "" {
		return "Department"
	}
	return name
}

// Workbook builds a single-sheet workbook: a header row, one row per
// employee and a final Target row.
func Workbook(v matrix.DepartmentView) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := SheetName(v.Name)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	header := make([]any, 0, len(v.Skills)+2)
	header = append(header, "Employee", "Role")
	for _, s := range v.Skills {
		header = append(header, s)
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, e := range v.Employees {
		row := make([]any, 0, len(header))
		row = append(row, e.Name, e.Role)
		for _, s := range v.Skills {
			lvl, ok := e.Levels.Get(s)
			if !ok {
				row = append(row, nil)
				continue
			}
			row = append(row, ToCell(lvl))
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	target := make([]any, 0, len(header))
	target = append(target, "Target", "")
	for range v.Skills {
		target = append(target, v.TargetLevel)
	}
	if err := setRow(f, sheet, len(v.Employees)+2, target); err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := styleHeader(f, sheet, len(header)); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// ToCell renders a level as it appears on the wire: "X" or the number.
func ToCell(l matrix.Level) any {
	return matrix.ToWire(int(l))
}

func WriteXLSX(w io.Writer, v matrix.DepartmentView) error {
	f, err := Workbook(v)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func styleHeader(f *excelize.File, sheet string, cols int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}
