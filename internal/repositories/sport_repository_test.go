package repositories

import (
	"errors"
	"testing"

	"github.com/arnav127/sports-ladder/internal/models"
	"github.com/arnav127/sports-ladder/internal/testhelpers"
)

func newSportRepo(t *testing.T) *SportRepository {
	t.Helper()
	return &SportRepository{DB: testhelpers.SetupTestDB(t)}
}

func TestSportRepository_CreateAndGet(t *testing.T) {
	repo := newSportRepo(t)

	sport := &models.Sport{Name: "Tennis"}
	if err := repo.CreateSport(sport); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sport.ID == "" {
		t.Fatalf("expected sport ID to be set")
	}

	got, err := repo.GetSport(sport.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Tennis" {
		t.Fatalf("expected name Tennis, got %q", got.Name)
	}

	if _, err := repo.GetSport("missing"); !errors.Is(err, ErrSportNotFound) {
		t.Fatalf("expected ErrSportNotFound, got %v", err)
	}
}

func TestSportRepository_ListSports(t *testing.T) {
	repo := newSportRepo(t)
	for _, name := range []string{"Squash", "Badminton", "Tennis"} {
		if err := repo.CreateSport(&models.Sport{Name: name}); err != nil {
			t.Fatalf("failed to seed sport %q: %v", name, err)
		}
	}

	sports, err := repo.ListSports()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Badminton", "Squash", "Tennis"}
	if len(sports) != len(want) {
		t.Fatalf("expected %d sports, got %d", len(want), len(sports))
	}
	for i, name := range want {
		if sports[i].Name != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, sports[i].Name)
		}
	}
}

func TestSportRepository_EnsureSports(t *testing.T) {
	repo := newSportRepo(t)

	if err := repo.EnsureSports([]string{"Tennis", "Squash"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sports, err := repo.ListSports()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sports) != 2 {
		t.Fatalf("expected 2 sports after seeding, got %d", len(sports))
	}

	// Seeding again is a no-op when the table already has rows.
	if err := repo.EnsureSports([]string{"Darts"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sports, err = repo.ListSports()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sports) != 2 {
		t.Fatalf("expected seeding to be idempotent, got %d sports", len(sports))
	}
}
