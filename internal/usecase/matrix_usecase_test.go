package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"skills-matrix/internal/domain/matrix"
	"skills-matrix/internal/pkg/idgen"
	"skills-matrix/internal/pkg/principal"
	"skills-matrix/internal/repository"
	"skills-matrix/internal/repository/memory"

	"github.com/google/uuid"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []matrix.ChangeEvent
}

func (n *recordingNotifier) Notify(ev matrix.ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

// failingRepo makes InsertActivity fail inside transactions so that the
// preceding writes of a mutation must be rolled back.
type failingRepo struct {
	repository.MatrixRepository
}

var errInjected = errors.New("injected failure")

func (f failingRepo) RunInTx(ctx context.Context, fn func(repo repository.MatrixRepository) error) error {
	return f.MatrixRepository.RunInTx(ctx, func(r repository.MatrixRepository) error {
		return fn(failingRepo{MatrixRepository: r})
	})
}

func (f failingRepo) InsertActivity(context.Context, matrix.ActivityRecord) error {
	return errInjected
}

func newMatrix(t *testing.T) (*Matrix, *memory.Repo, *recordingNotifier) {
	t.Helper()
	repo := memory.NewRepository(nil)
	n := &recordingNotifier{}
	uc := NewMatrixUsecase(repo, n, nil)

	// Strictly increasing clock keeps creation order deterministic.
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	var tick int
	uc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Millisecond)
	}
	return uc, repo, n
}

func mustCreate(t *testing.T, uc *Matrix, name string) matrix.DepartmentView {
	t.Helper()
	v, err := uc.CreateDepartment(context.Background(), CreateDepartmentInput{Name: name})
	if err != nil {
		t.Fatalf("CreateDepartment: %v", err)
	}
	return v
}

func levelsJSON(t *testing.T, ls matrix.Levels) string {
	t.Helper()
	b, err := json.Marshal(ls)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestScenario_CreateAddSkillAddEmployee(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newMatrix(t)

	three := 3
	v, err := uc.CreateDepartment(ctx, CreateDepartmentInput{Name: "Eng", TargetLevel: &three})
	if err != nil {
		t.Fatalf("CreateDepartment: %v", err)
	}
	if v.Name != "Eng" || v.TargetLevel != 3 || len(v.Skills) != 0 || len(v.Employees) != 0 {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.Skills == nil || v.Employees == nil {
		t.Fatalf("empty collections must be non-nil")
	}

	if _, err := uc.AddSkill(ctx, v.ID, "SQL"); err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	v, err = uc.AddEmployee(ctx, v.ID, AddEmployeeInput{Name: "Bob"})
	if err != nil {
		t.Fatalf("AddEmployee: %v", err)
	}

	if len(v.Skills) != 1 || v.Skills[0] != "SQL" {
		t.Fatalf("skills = %v", v.Skills)
	}
	if len(v.Employees) != 1 || v.Employees[0].Name != "Bob" || v.Employees[0].Role != "" {
		t.Fatalf("employees = %+v", v.Employees)
	}
	if got := levelsJSON(t, v.Employees[0].Levels); got != `{"SQL":1}` {
		t.Fatalf("levels = %s", got)
	}
}

func TestCreateDepartment_DefaultsAndValidation(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newMatrix(t)

	v := mustCreate(t, uc, "  Ops  ")
	if v.Name != "Ops" || v.TargetLevel != matrix.DefaultTargetLevel {
		t.Fatalf("unexpected view: %+v", v)
	}

	_, err := uc.CreateDepartment(ctx, CreateDepartmentInput{Name: "   "})
	var ve *ValidationError
	if !errors.Is(err, ErrInvalidInput) || !errors.As(err, &ve) || ve.Message != "Department name is required" {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddEmployee_GetsLevelOneForEverySkill(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newMatrix(t)
	d := mustCreate(t, uc, "Eng")

	for _, s := range []string{"SQL", "Go"} {
		if _, err := uc.AddSkill(ctx, d.ID, s); err != nil {
			t.Fatal(err)
		}
	}
	v, err := uc.AddEmployee(ctx, d.ID, AddEmployeeInput{Name: "Alice", Role: "Lead"})
	if err != nil {
		t.Fatal(err)
	}
	if got := levelsJSON(t, v.Employees[0].Levels); got != `{"SQL":1,"Go":1}` {
		t.Fatalf("levels = %s", got)
	}
	if v.Employees[0].Role != "Lead" {
		t.Fatalf("role = %q", v.Employees[0].Role)
	}
}

func TestAddSkill_GetsLevelOneForEveryEmployee(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newMatrix(t)
	d := mustCreate(t, uc, "Eng")

	for _, n := range []string{"A", "B"} {
		if _, err := uc.AddEmployee(ctx, d.ID, AddEmployeeInput{Name: n}); err != nil {
			t.Fatal(err)
		}
	}
	v, err := uc.AddSkill(ctx, d.ID, "Rust")
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Employees) != 2 {
		t.Fatalf("employees = %+v", v.Employees)
	}
	for _, e := range v.Employees {
		if lvl, ok := e.Levels.Get("Rust"); !ok || lvl != 1 {
			t.Fatalf("%s Rust level = %v, %v", e.Name, lvl, ok)
		}
	}
	if v.Employees[0].Name != "A" || v.Employees[1].Name != "B" {
		t.Fatalf("employees not in creation order: %+v", v.Employees)
	}
}

func TestSkills_DisplayOrderIsNotReused(t *testing.T) {
	ctx := context.Background()
	uc, repo, _ := newMatrix(t)
	d := mustCreate(t, uc, "Eng")

	for _, s := range []string{"SQL", "Go", "Rust"} {
		if _, err := uc.AddSkill(ctx, d.ID, s); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := uc.RemoveSkill(ctx, d.ID, "Rust"); err != nil {
		t.Fatal(err)
	}
	v, err := uc.AddSkill(ctx, d.ID, "Zig")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"SQL", "Go", "Zig"}
	for i := range want {
		if v.Skills[i] != want[i] {
			t.Fatalf("skills = %v, want %v", v.Skills, want)
		}
	}

	skills, _ := repo.ListSkills(ctx, d.ID)
	if skills[2].DisplayOrder != 3 {
		t.Fatalf("Zig display order = %d, want 3", skills[2].DisplayOrder)
	}
}

func TestRemoveSkill_UnknownNameIsNoOp(t *testing.T) {
	ctx := context.Background()
	uc, _, n := newMatrix(t)
	d := mustCreate(t, uc, "Eng")
	before := len(n.events)

	v, err := uc.RemoveSkill(ctx, d.ID, "COBOL")
	if err != nil {
		t.Fatalf("RemoveSkill: %v", err)
	}
	if len(v.Skills) != 0 {
		t.Fatalf("skills = %v", v.Skills)
	}
	if len(n.events) != before {
		t.Fatalf("no-op removal should not notify")
	}

	if _, err := uc.RemoveSkill(ctx, uuid.New(), "COBOL"); !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}
	if _, err := uc.RemoveSkill(ctx, d.ID, " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSetSkillLevel(t *testing.T) {
	ctx := context.Background()
	uc, repo, _ := newMatrix(t)
	d := mustCreate(t, uc, "Eng")
	if _, err := uc.AddSkill(ctx, d.ID, "SQL"); err != nil {
		t.Fatal(err)
	}
	v, err := uc.AddEmployee(ctx, d.ID, AddEmployeeInput{Name: "Bob"})
	if err != nil {
		t.Fatal(err)
	}
	bob := v.Employees[0].ID

	for i := 0; i < 2; i++ {
		v, err = uc.SetSkillLevel(ctx, bob, "SQL", "X")
		if err != nil {
			t.Fatalf("SetSkillLevel #%d: %v", i+1, err)
		}
	}
	if got := levelsJSON(t, v.Employees[0].Levels); got != `{"SQL":"X"}` {
		t.Fatalf("levels = %s", got)
	}
	rows, _ := repo.ListDepartmentLevels(ctx, d.ID)
	if len(rows) != 1 || rows[0].Value != 0 {
		t.Fatalf("stored rows = %+v", rows)
	}

	v, err = uc.SetSkillLevel(ctx, bob, "SQL", json.Number("4"))
	if err != nil {
		t.Fatal(err)
	}
	if lvl, _ := v.Employees[0].Levels.Get("SQL"); lvl != 4 {
		t.Fatalf("level = %v", lvl)
	}

	tests := []struct {
		name     string
		employee uuid.UUID
		skill    string
		level    any
		want     error
	}{
		{"unknown employee", uuid.New(), "SQL", 2, ErrEmployeeNotFound},
		{"unknown skill", bob, "Go", 2, ErrSkillNotFound},
		{"zero", bob, "SQL", 0, ErrInvalidLevel},
		{"five", bob, "SQL", float64(5), ErrInvalidLevel},
		{"lowercase x", bob, "SQL", "x", ErrInvalidLevel},
		{"fraction", bob, "SQL", 2.5, ErrInvalidLevel},
		{"null", bob, "SQL", nil, ErrInvalidLevel},
		{"blank skill", bob, "  ", 2, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.SetSkillLevel(ctx, tt.employee, tt.skill, tt.level); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	v, _ = uc.GetDepartmentView(ctx, d.ID)
	if lvl, _ := v.Employees[0].Levels.Get("SQL"); lvl != 4 {
		t.Fatalf("failed calls changed the level to %v", lvl)
	}
}

func TestUpdateDepartment(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newMatrix(t)
	d := mustCreate(t, uc, "Eng")

	if _, err := uc.UpdateDepartment(ctx, d.ID, UpdateDepartmentInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	blank := " "
	if _, err := uc.UpdateDepartment(ctx, d.ID, UpdateDepartmentInput{Name: &blank}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	four := 4
	if _, err := uc.UpdateDepartment(ctx, uuid.New(), UpdateDepartmentInput{TargetLevel: &four}); !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}

	v, err := uc.UpdateDepartment(ctx, d.ID, UpdateDepartmentInput{TargetLevel: &four})
	if err != nil {
		t.Fatal(err)
	}
	if v.Name != "Eng" || v.TargetLevel != 4 {
		t.Fatalf("unexpected view: %+v", v)
	}
}

func TestUpdateEmployee(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newMatrix(t)
	d := mustCreate(t, uc, "Eng")
	v, _ := uc.AddEmployee(ctx, d.ID, AddEmployeeInput{Name: "Bob", Role: "Dev"})
	bob := v.Employees[0].ID

	if _, err := uc.UpdateEmployee(ctx, uuid.New(), UpdateEmployeeInput{}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("absent employee must win over empty input, got %v", err)
	}
	if _, err := uc.UpdateEmployee(ctx, bob, UpdateEmployeeInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	role := "Lead"
	v, err := uc.UpdateEmployee(ctx, bob, UpdateEmployeeInput{Role: &role})
	if err != nil {
		t.Fatal(err)
	}
	if v.ID != d.ID || v.Employees[0].Name != "Bob" || v.Employees[0].Role != "Lead" {
		t.Fatalf("unexpected view: %+v", v)
	}
}

func TestDeleteEmployee_ReturnsFormerDepartment(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newMatrix(t)
	d := mustCreate(t, uc, "Eng")
	v, _ := uc.AddEmployee(ctx, d.ID, AddEmployeeInput{Name: "Bob"})

	v, err := uc.DeleteEmployee(ctx, v.Employees[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if v.ID != d.ID || len(v.Employees) != 0 {
		t.Fatalf("unexpected view: %+v", v)
	}
	if _, err := uc.DeleteEmployee(ctx, uuid.New()); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestDeleteDepartment_Cascades(t *testing.T) {
	ctx := context.Background()
	uc, repo, n := newMatrix(t)
	d := mustCreate(t, uc, "Eng")
	_, _ = uc.AddSkill(ctx, d.ID, "SQL")
	_, _ = uc.AddEmployee(ctx, d.ID, AddEmployeeInput{Name: "Bob"})

	if err := uc.DeleteDepartment(ctx, d.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.GetDepartmentView(ctx, d.ID); !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}

	skills, _ := repo.ListSkills(ctx, d.ID)
	employees, _ := repo.ListEmployees(ctx, d.ID)
	rows, _ := repo.ListDepartmentLevels(ctx, d.ID)
	if len(skills)+len(employees)+len(rows) != 0 {
		t.Fatalf("leftovers: skills=%d employees=%d cells=%d", len(skills), len(employees), len(rows))
	}

	last := n.events[len(n.events)-1]
	if last.Type != matrix.EventDepartmentDeleted || last.DepartmentID != d.ID {
		t.Fatalf("last event = %+v", last)
	}

	if err := uc.DeleteDepartment(ctx, d.ID); !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}
}

func TestMutation_FailureLeavesNoPartialEffect(t *testing.T) {
	ctx := context.Background()
	uc, repo, n := newMatrix(t)
	d := mustCreate(t, uc, "Eng")
	_, _ = uc.AddSkill(ctx, d.ID, "SQL")
	events := len(n.events)

	uc.repo = failingRepo{MatrixRepository: repo}

	_, err := uc.AddEmployee(ctx, d.ID, AddEmployeeInput{Name: "Bob"})
	if !errors.Is(err, ErrStorage) || !errors.Is(err, errInjected) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if err := uc.DeleteDepartment(ctx, d.ID); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}

	uc.repo = repo
	v, err := uc.GetDepartmentView(ctx, d.ID)
	if err != nil {
		t.Fatalf("department lost: %v", err)
	}
	if len(v.Employees) != 0 || len(v.Skills) != 1 {
		t.Fatalf("partial effect visible: %+v", v)
	}
	rows, _ := repo.ListDepartmentLevels(ctx, d.ID)
	if len(rows) != 0 {
		t.Fatalf("orphan cells: %+v", rows)
	}
	if len(n.events) != events {
		t.Fatalf("failed mutations must not notify")
	}
}

func TestActivity_RecordsActor(t *testing.T) {
	uc, repo, _ := newMatrix(t)
	ctx := principal.WithUsername(context.Background(), "alice")

	d, err := uc.CreateDepartment(ctx, CreateDepartmentInput{Name: "Eng"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uc.AddSkill(context.Background(), d.ID, "SQL"); err != nil {
		t.Fatal(err)
	}

	items, err := NewActivityUsecase(repo).ListRecentActivity(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("activity = %+v", items)
	}
	if items[0].Action != matrix.ActionSkillCreate || items[0].Actor != principal.System {
		t.Fatalf("newest = %+v", items[0])
	}
	if items[1].Action != matrix.ActionDepartmentCreate || items[1].Actor != "alice" {
		t.Fatalf("oldest = %+v", items[1])
	}
	if items[1].DepartmentID == nil || *items[1].DepartmentID != d.ID {
		t.Fatalf("department id = %v", items[1].DepartmentID)
	}
}

func TestListDepartments_CreationOrder(t *testing.T) {
	uc, _, _ := newMatrix(t)
	a := mustCreate(t, uc, "A")
	b := mustCreate(t, uc, "B")

	all, err := uc.ListDepartments(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != a.ID || all[1].ID != b.ID {
		t.Fatalf("departments = %+v", all)
	}
}

func TestMatrix_AssignsGeneratedIDs(t *testing.T) {
	uc, repo, n := newMatrix(t)
	deptID := uuid.MustParse("00000000-0000-0000-0000-0000000000d1")
	skillID := uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	empID := uuid.MustParse("00000000-0000-0000-0000-0000000000e1")
	uc.ids = idgen.NewSequence(deptID, uuid.New(), skillID, uuid.New(), empID)

	ctx := context.Background()
	v := mustCreate(t, uc, "Eng")
	if v.ID != deptID {
		t.Fatalf("department id = %s", v.ID)
	}
	if _, err := uc.AddSkill(ctx, deptID, "Go"); err != nil {
		t.Fatal(err)
	}
	v, err := uc.AddEmployee(ctx, deptID, AddEmployeeInput{Name: "Ann"})
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Employees) != 1 || v.Employees[0].ID != empID {
		t.Fatalf("employees = %+v", v.Employees)
	}
	n.mu.Lock()
	last := n.events[len(n.events)-1]
	n.mu.Unlock()
	if last.DepartmentID != deptID {
		t.Fatalf("event department = %s", last.DepartmentID)
	}

	s, err := repo.FindSkillByName(ctx, deptID, "Go")
	if err != nil || s.ID != skillID {
		t.Fatalf("skill = %+v, %v", s, err)
	}
}
