package matrix

import "github.com/google/uuid"

type DepartmentView struct {
	ID          uuid.UUID
	Name        string
	TargetLevel int
	Skills      []string
	Employees   []EmployeeView
}

type EmployeeView struct {
	ID     uuid.UUID
	Name   string
	Role   string
	Levels Levels
}

// BuildDepartmentView assembles the nested view from flat rows. Skill order is
// taken from skills as given (callers pass them sorted by display order); each
// employee's levels follow that same order. Cells for skills not in the list are
// dropped, and skills without a cell are absent from the employee's levels.
func BuildDepartmentView(d Department, skills []Skill, employees []Employee, rows []LevelRow) DepartmentView {
	view := DepartmentView{
		ID:          d.ID,
		Name:        d.Name,
		TargetLevel: d.TargetLevel,
		Skills:      make([]string, 0, len(skills)),
		Employees:   make([]EmployeeView, 0, len(employees)),
	}

	order := make(map[string]struct{}, len(skills))
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		view.Skills = append(view.Skills, s.Name)
		if _, dup := order[s.Name]; dup {
			continue
		}
		order[s.Name] = struct{}{}
		names = append(names, s.Name)
	}

	cells := make(map[uuid.UUID]map[string]Level, len(employees))
	for _, r := range rows {
		if _, ok := order[r.SkillName]; !ok {
			continue
		}
		m := cells[r.EmployeeID]
		if m == nil {
			m = make(map[string]Level)
			cells[r.EmployeeID] = m
		}
		m[r.SkillName] = r.Value
	}

	for _, e := range employees {
		ev := EmployeeView{ID: e.ID, Name: e.Name, Role: e.Role, Levels: Levels{}}
		m := cells[e.ID]
		for _, name := range names {
			if lvl, ok := m[name]; ok {
				ev.Levels = append(ev.Levels, LevelEntry{Skill: name, Level: lvl})
			}
		}
		view.Employees = append(view.Employees, ev)
	}

	return view
}

func (v DepartmentView) Employee(id uuid.UUID) (EmployeeView, bool) {
	for _, e := range v.Employees {
		if e.ID == id {
			return e, true
		}
	}
	return EmployeeView{}, false
}
