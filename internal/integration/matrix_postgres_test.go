//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"skills-matrix/internal/config"
	"skills-matrix/internal/database"
	"skills-matrix/internal/database/migration"
	dbpostgres "skills-matrix/internal/database/postgres"
	"skills-matrix/internal/domain/matrix"
	"skills-matrix/internal/pkg/principal"
	"skills-matrix/internal/repository"
	"skills-matrix/internal/usecase"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestIntegration_Postgres_Scenario(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := connectTestDB(t, ctx)
	runMigrations(t, ctx, db)

	uc := usecase.NewMatrixUsecase(repository.NewPostgresMatrixRepository(db), nil, log.New(io.Discard, "", 0))
	ctx = principal.WithUsername(ctx, "alice")

	target := 3
	v, err := uc.CreateDepartment(ctx, usecase.CreateDepartmentInput{Name: uniqueName("Eng"), TargetLevel: &target})
	if err != nil {
		t.Fatalf("create department: %v", err)
	}
	defer func() { _ = uc.DeleteDepartment(context.Background(), v.ID) }()

	if v.TargetLevel != 3 || len(v.Skills) != 0 || len(v.Employees) != 0 {
		t.Fatalf("new department: %+v", v)
	}

	if _, err := uc.AddSkill(ctx, v.ID, "SQL"); err != nil {
		t.Fatalf("add skill: %v", err)
	}
	v, err = uc.AddEmployee(ctx, v.ID, usecase.AddEmployeeInput{Name: "Bob"})
	if err != nil {
		t.Fatalf("add employee: %v", err)
	}
	if len(v.Skills) != 1 || v.Skills[0] != "SQL" || len(v.Employees) != 1 {
		t.Fatalf("view: %+v", v)
	}
	bob := v.Employees[0]
	if lvl, ok := bob.Levels.Get("SQL"); !ok || lvl != matrix.LevelInitial {
		t.Fatalf("Bob SQL = %v, %v", lvl, ok)
	}

	if _, err := uc.AddSkill(ctx, v.ID, "Go"); err != nil {
		t.Fatalf("add skill: %v", err)
	}
	v, err = uc.SetSkillLevel(ctx, bob.ID, "Go", "X")
	if err != nil {
		t.Fatalf("set level: %v", err)
	}
	got, _ := v.Employee(bob.ID)
	if lvl, _ := got.Levels.Get("Go"); lvl != matrix.LevelNone {
		t.Fatalf("Bob Go = %v", lvl)
	}
	if strings.Join(v.Skills, ",") != "SQL,Go" {
		t.Fatalf("skills order = %v", v.Skills)
	}

	if _, err := uc.SetSkillLevel(ctx, bob.ID, "Go", 7); !errors.Is(err, usecase.ErrInvalidLevel) {
		t.Fatalf("level 7: %v", err)
	}
	if _, err := uc.SetSkillLevel(ctx, bob.ID, "Rust", 2); !errors.Is(err, usecase.ErrSkillNotFound) {
		t.Fatalf("unknown skill: %v", err)
	}

	acts, err := usecase.NewActivityUsecase(repository.NewPostgresMatrixRepository(db)).ListRecentActivity(ctx, 10)
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if len(acts) == 0 || acts[0].Actor != "alice" {
		t.Fatalf("activity = %+v", acts)
	}
}

func TestIntegration_Postgres_DeleteDepartmentCascades(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := connectTestDB(t, ctx)
	runMigrations(t, ctx, db)

	repo := repository.NewPostgresMatrixRepository(db)
	uc := usecase.NewMatrixUsecase(repo, nil, log.New(io.Discard, "", 0))

	v, err := uc.CreateDepartment(ctx, usecase.CreateDepartmentInput{Name: uniqueName("Ops")})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uc.AddSkill(ctx, v.ID, "Docker"); err != nil {
		t.Fatal(err)
	}
	v, err = uc.AddEmployee(ctx, v.ID, usecase.AddEmployeeInput{Name: "Ann", Role: "SRE"})
	if err != nil {
		t.Fatal(err)
	}
	empID := v.Employees[0].ID

	if err := uc.DeleteDepartment(ctx, v.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := uc.GetDepartmentView(ctx, v.ID); !errors.Is(err, usecase.ErrDepartmentNotFound) {
		t.Fatalf("get deleted: %v", err)
	}
	if _, err := repo.GetEmployee(ctx, empID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("employee survived: %v", err)
	}

	for _, table := range []string{"skills", "employees"} {
		if n := countRows(t, ctx, db, "SELECT COUNT(*) FROM "+table+" WHERE department_id = $1", v.ID); n != 0 {
			t.Fatalf("%s rows left: %d", table, n)
		}
	}
	if n := countRows(t, ctx, db, "SELECT COUNT(*) FROM skill_levels WHERE employee_id = $1", empID); n != 0 {
		t.Fatalf("skill_levels rows left: %d", n)
	}
}

func TestIntegration_Postgres_ForeignKeyIsNotFound(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := connectTestDB(t, ctx)
	runMigrations(t, ctx, db)

	repo := repository.NewPostgresMatrixRepository(db)
	err := repo.RunInTx(ctx, func(r repository.MatrixRepository) error {
		now := time.Now().UTC()
		return r.InsertEmployee(ctx, matrix.Employee{
			ID:           uuid.New(),
			DepartmentID: uuid.New(),
			Name:         "Ghost",
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	cfg, ok := envDBConfig()
	if !ok {
		cfg = startPostgres(t, ctx)
	}

	db, err := dbpostgres.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func envDBConfig() (config.DatabaseConfig, bool) {
	get := func(key string) string { return strings.TrimSpace(os.Getenv("SKILLS_MATRIX_TEST_DB_" + key)) }

	cfg := config.DatabaseConfig{
		Driver:     config.DriverPostgres,
		DBHost:     get("HOST"),
		DBPort:     get("PORT"),
		DBName:     get("NAME"),
		DBUser:     get("USER"),
		DBPassword: get("PASSWORD"),
		DBSSLMode:  get("SSL_MODE"),
	}
	if cfg.DBHost == "" || cfg.DBName == "" || cfg.DBUser == "" {
		return config.DatabaseConfig{}, false
	}
	if cfg.DBPort == "" {
		cfg.DBPort = "5432"
	}
	if cfg.DBSSLMode == "" {
		cfg.DBSSLMode = "disable"
	}
	return cfg, true
}

func startPostgres(t *testing.T, ctx context.Context) config.DatabaseConfig {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "skills_matrix",
			"POSTGRES_USER":     "matrix",
			"POSTGRES_PASSWORD": "matrix",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	return config.DatabaseConfig{
		Driver:     config.DriverPostgres,
		DBHost:     host,
		DBPort:     port.Port(),
		DBName:     "skills_matrix",
		DBUser:     "matrix",
		DBPassword: "matrix",
		DBSSLMode:  "disable",
	}
}

func runMigrations(t *testing.T, ctx context.Context, db database.DB) {
	t.Helper()
	if _, err := (migration.Runner{}).Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// A second run must be a no-op.
	n, err := (migration.Runner{}).Run(ctx, db.SQLDB())
	if err != nil || n != 0 {
		t.Fatalf("re-run migrate: applied=%d err=%v", n, err)
	}
}

func countRows(t *testing.T, ctx context.Context, db database.DB, query string, arg any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(ctx, query, arg).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}
