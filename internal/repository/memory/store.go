// Package memory implements the matrix repository contract in process memory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"skills-matrix/internal/domain/matrix"
	"skills-matrix/internal/repository"

	"github.com/google/uuid"
)

type levelKey struct {
	employee uuid.UUID
	skill    uuid.UUID
}

type deptRow struct {
	matrix.Department
	seq uint64
}

type empRow struct {
	matrix.Employee
	seq uint64
}

type activityRow struct {
	matrix.ActivityRecord
	seq uint64
}

type state struct {
	seq         uint64
	departments map[uuid.UUID]deptRow
	skills      map[uuid.UUID]matrix.Skill
	employees   map[uuid.UUID]empRow
	levels      map[levelKey]matrix.SkillLevel
	activity    []activityRow
}

func newState() *state {
	return &state{
		departments: map[uuid.UUID]deptRow{},
		skills:      map[uuid.UUID]matrix.Skill{},
		employees:   map[uuid.UUID]empRow{},
		levels:      map[levelKey]matrix.SkillLevel{},
	}
}

func (s *state) clone() *state {
	c := &state{
		seq:         s.seq,
		departments: make(map[uuid.UUID]deptRow, len(s.departments)),
		skills:      make(map[uuid.UUID]matrix.Skill, len(s.skills)),
		employees:   make(map[uuid.UUID]empRow, len(s.employees)),
		levels:      make(map[levelKey]matrix.SkillLevel, len(s.levels)),
		activity:    make([]activityRow, len(s.activity)),
	}
	for k, v := range s.departments {
		c.departments[k] = v
	}
	for k, v := range s.skills {
		c.skills[k] = v
	}
	for k, v := range s.employees {
		c.employees[k] = v
	}
	for k, v := range s.levels {
		c.levels[k] = v
	}
	copy(c.activity, s.activity)
	return c
}

func (s *state) next() uint64 {
	s.seq++
	return s.seq
}

// Store holds the committed state shared by all repositories it hands out.
type Store struct {
	mu sync.RWMutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

// Repo implements repository.MatrixRepository. Outside a transaction each call
// locks the store; inside one it works on a private copy.
type Repo struct {
	store *Store
	tx    *state
}

var _ repository.MatrixRepository = (*Repo)(nil)

func NewRepository(store *Store) *Repo {
	if store == nil {
		store = NewStore()
	}
	return &Repo{store: store}
}

// RunInTx serializes writers and swaps the copy in only when fn succeeds.
func (r *Repo) RunInTx(ctx context.Context, fn func(repo repository.MatrixRepository) error) error {
	if r.tx != nil {
		return fn(r)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	work := r.store.st.clone()
	if err := fn(&Repo{store: r.store, tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.st = work
	return nil
}

func (r *Repo) read(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.tx != nil {
		return fn(r.tx)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return fn(r.store.st)
}

func (r *Repo) write(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.tx != nil {
		return fn(r.tx)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(r.store.st)
}

func (r *Repo) GetDepartment(ctx context.Context, id uuid.UUID) (matrix.Department, error) {
	var out matrix.Department
	err := r.read(ctx, func(st *state) error {
		d, ok := st.departments[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = d.Department
		return nil
	})
	return out, err
}

func (r *Repo) DepartmentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.read(ctx, func(st *state) error {
		_, ok = st.departments[id]
		return nil
	})
	return ok, err
}

func (r *Repo) ListDepartmentIDs(ctx context.Context) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0)
	err := r.read(ctx, func(st *state) error {
		rows := make([]deptRow, 0, len(st.departments))
		for _, d := range st.departments {
			rows = append(rows, d)
		}
		sort.Slice(rows, func(i, j int) bool {
			if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
				return rows[i].CreatedAt.Before(rows[j].CreatedAt)
			}
			return rows[i].seq < rows[j].seq
		})
		for _, d := range rows {
			out = append(out, d.ID)
		}
		return nil
	})
	return out, err
}

func (r *Repo) InsertDepartment(ctx context.Context, d matrix.Department) error {
	return r.write(ctx, func(st *state) error {
		if _, dup := st.departments[d.ID]; dup {
			return errDuplicateKey("departments")
		}
		st.departments[d.ID] = deptRow{Department: d, seq: st.next()}
		return nil
	})
}

func (r *Repo) UpdateDepartment(ctx context.Context, id uuid.UUID, u repository.DepartmentUpdate) error {
	return r.write(ctx, func(st *state) error {
		d, ok := st.departments[id]
		if !ok {
			return repository.ErrNotFound
		}
		if u.Name != nil {
			d.Name = *u.Name
		}
		if u.TargetLevel != nil {
			d.TargetLevel = *u.TargetLevel
		}
		d.UpdatedAt = u.UpdatedAt
		st.departments[id] = d
		return nil
	})
}

func (r *Repo) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.departments[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.departments, id)
		for eid, e := range st.employees {
			if e.DepartmentID == id {
				st.deleteEmployee(eid)
			}
		}
		for sid, s := range st.skills {
			if s.DepartmentID == id {
				st.deleteSkill(sid)
			}
		}
		return nil
	})
}

func (s *state) deleteEmployee(id uuid.UUID) {
	delete(s.employees, id)
	for k := range s.levels {
		if k.employee == id {
			delete(s.levels, k)
		}
	}
}

func (s *state) deleteSkill(id uuid.UUID) {
	delete(s.skills, id)
	for k := range s.levels {
		if k.skill == id {
			delete(s.levels, k)
		}
	}
}

func (r *Repo) GetEmployee(ctx context.Context, id uuid.UUID) (matrix.Employee, error) {
	var out matrix.Employee
	err := r.read(ctx, func(st *state) error {
		e, ok := st.employees[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = e.Employee
		return nil
	})
	return out, err
}

func (r *Repo) ListEmployees(ctx context.Context, departmentID uuid.UUID) ([]matrix.Employee, error) {
	out := make([]matrix.Employee, 0)
	err := r.read(ctx, func(st *state) error {
		rows := st.employeesOf(departmentID)
		for _, e := range rows {
			out = append(out, e.Employee)
		}
		return nil
	})
	return out, err
}

func (s *state) employeesOf(departmentID uuid.UUID) []empRow {
	rows := make([]empRow, 0)
	for _, e := range s.employees {
		if e.DepartmentID == departmentID {
			rows = append(rows, e)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].seq < rows[j].seq
	})
	return rows
}

func (r *Repo) InsertEmployee(ctx context.Context, e matrix.Employee) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.departments[e.DepartmentID]; !ok {
			return errForeignKey("employees", "department_id")
		}
		if _, dup := st.employees[e.ID]; dup {
			return errDuplicateKey("employees")
		}
		st.employees[e.ID] = empRow{Employee: e, seq: st.next()}
		return nil
	})
}

func (r *Repo) UpdateEmployee(ctx context.Context, id uuid.UUID, u repository.EmployeeUpdate) error {
	return r.write(ctx, func(st *state) error {
		e, ok := st.employees[id]
		if !ok {
			return repository.ErrNotFound
		}
		if u.Name != nil {
			e.Name = *u.Name
		}
		if u.Role != nil {
			e.Role = *u.Role
		}
		e.UpdatedAt = u.UpdatedAt
		st.employees[id] = e
		return nil
	})
}

func (r *Repo) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.employees[id]; !ok {
			return repository.ErrNotFound
		}
		st.deleteEmployee(id)
		return nil
	})
}

func (r *Repo) ListSkills(ctx context.Context, departmentID uuid.UUID) ([]matrix.Skill, error) {
	out := make([]matrix.Skill, 0)
	err := r.read(ctx, func(st *state) error {
		out = append(out, st.skillsOf(departmentID)...)
		return nil
	})
	return out, err
}

func (s *state) skillsOf(departmentID uuid.UUID) []matrix.Skill {
	out := make([]matrix.Skill, 0)
	for _, sk := range s.skills {
		if sk.DepartmentID == departmentID {
			out = append(out, sk)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return strings.Compare(out[i].ID.String(), out[j].ID.String()) < 0
	})
	return out
}

func (r *Repo) FindSkillByName(ctx context.Context, departmentID uuid.UUID, name string) (matrix.Skill, error) {
	var out matrix.Skill
	err := r.read(ctx, func(st *state) error {
		for _, sk := range st.skillsOf(departmentID) {
			if sk.Name == name {
				out = sk
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *Repo) NextSkillOrder(ctx context.Context, departmentID uuid.UUID) (int, error) {
	next := 0
	err := r.read(ctx, func(st *state) error {
		for _, sk := range st.skills {
			if sk.DepartmentID == departmentID && sk.DisplayOrder > next {
				next = sk.DisplayOrder
			}
		}
		return nil
	})
	return next + 1, err
}

func (r *Repo) InsertSkill(ctx context.Context, s matrix.Skill) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.departments[s.DepartmentID]; !ok {
			return errForeignKey("skills", "department_id")
		}
		if _, dup := st.skills[s.ID]; dup {
			return errDuplicateKey("skills")
		}
		st.skills[s.ID] = s
		return nil
	})
}

func (r *Repo) DeleteSkillsByName(ctx context.Context, departmentID uuid.UUID, name string) (int64, error) {
	var n int64
	err := r.write(ctx, func(st *state) error {
		for id, sk := range st.skills {
			if sk.DepartmentID == departmentID && sk.Name == name {
				st.deleteSkill(id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *Repo) InsertSkillLevel(ctx context.Context, l matrix.SkillLevel) error {
	return r.write(ctx, func(st *state) error {
		if err := st.checkLevel(l); err != nil {
			return err
		}
		k := levelKey{employee: l.EmployeeID, skill: l.SkillID}
		if _, dup := st.levels[k]; dup {
			return errDuplicateKey("skill_levels")
		}
		st.levels[k] = l
		return nil
	})
}

func (r *Repo) UpsertSkillLevel(ctx context.Context, l matrix.SkillLevel) error {
	return r.write(ctx, func(st *state) error {
		if err := st.checkLevel(l); err != nil {
			return err
		}
		st.levels[levelKey{employee: l.EmployeeID, skill: l.SkillID}] = l
		return nil
	})
}

func (s *state) checkLevel(l matrix.SkillLevel) error {
	if _, ok := s.employees[l.EmployeeID]; !ok {
		return errForeignKey("skill_levels", "employee_id")
	}
	if _, ok := s.skills[l.SkillID]; !ok {
		return errForeignKey("skill_levels", "skill_id")
	}
	if l.Value < matrix.LevelNone || l.Value > matrix.LevelMax {
		return errCheck("skill_levels", "level_value")
	}
	return nil
}

func (r *Repo) ListDepartmentLevels(ctx context.Context, departmentID uuid.UUID) ([]matrix.LevelRow, error) {
	out := make([]matrix.LevelRow, 0)
	err := r.read(ctx, func(st *state) error {
		skills := st.skillsOf(departmentID)
		for _, e := range st.employeesOf(departmentID) {
			for _, sk := range skills {
				l, ok := st.levels[levelKey{employee: e.ID, skill: sk.ID}]
				if !ok {
					continue
				}
				out = append(out, matrix.LevelRow{EmployeeID: e.ID, SkillName: sk.Name, Value: l.Value})
			}
		}
		return nil
	})
	return out, err
}

func (r *Repo) InsertActivity(ctx context.Context, a matrix.ActivityRecord) error {
	return r.write(ctx, func(st *state) error {
		st.activity = append(st.activity, activityRow{ActivityRecord: a, seq: st.next()})
		return nil
	})
}

func (r *Repo) ListRecentActivity(ctx context.Context, limit int) ([]matrix.ActivityRecord, error) {
	out := make([]matrix.ActivityRecord, 0)
	err := r.read(ctx, func(st *state) error {
		rows := make([]activityRow, len(st.activity))
		copy(rows, st.activity)
		sort.Slice(rows, func(i, j int) bool {
			if !rows[i].OccurredAt.Equal(rows[j].OccurredAt) {
				return rows[i].OccurredAt.After(rows[j].OccurredAt)
			}
			return rows[i].seq > rows[j].seq
		})
		if limit > 0 && len(rows) > limit {
			rows = rows[:limit]
		}
		for _, a := range rows {
			out = append(out, a.ActivityRecord)
		}
		return nil
	})
	return out, err
}
