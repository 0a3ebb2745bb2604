package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"skills-matrix/internal/domain/matrix"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	out, err := execute(t, "hash-password", "--cost", "4", "hunter2")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	hash := strings.TrimSpace(out)
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")); err != nil {
		t.Fatalf("hash %q does not match: %v", hash, err)
	}

	if _, err := execute(t, "hash-password"); err == nil {
		t.Fatal("expected error without argument")
	}
}

func TestMemoryDriverCommands(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")

	out, err := execute(t, "migrate")
	if err != nil || !strings.Contains(out, "nothing to migrate") {
		t.Fatalf("migrate: %q %v", out, err)
	}

	out, err = execute(t, "seed")
	if err != nil || !strings.Contains(out, "seeders finished") {
		t.Fatalf("seed: %q %v", out, err)
	}

	out, err = execute(t, "activity", "--limit", "5")
	if err != nil || !strings.Contains(out, "no activity recorded") {
		t.Fatalf("activity: %q %v", out, err)
	}

	if _, err := execute(t, "migrate", "status"); err == nil {
		t.Fatal("migrate status should need postgres")
	}
}

func TestPrintActivity(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	activityCmd.SetOut(&out)
	defer activityCmd.SetOut(nil)

	printActivity(activityCmd, []matrix.ActivityRecord{{
		ID:         uuid.New(),
		OccurredAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Actor:      "alice",
		Action:     matrix.ActionSkillCreate,
		EntityType: matrix.EntitySkill,
		Detail:     "Go",
	}})

	got := out.String()
	for _, want := range []string{"TIME", "2026-03-01 09:30:00", "alice", "skill.create", "Go"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q missing %q", got, want)
		}
	}
}
