package db

import (
	"context"
	"errors"
	"os"
	"testing"

	"aimtrainer/internal/scenarios"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	ctx := context.Background()
	database, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := database.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	t.Cleanup(func() {
		database.conn.Exec("DELETE FROM scenarios")
		database.Close()
	})
	return database
}

func TestConnect(t *testing.T) {
	database := getTestDB(t)
	if err := database.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	database := getTestDB(t)
	if err := database.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate() error: %v", err)
	}
}

func TestSaveAndGetScenario(t *testing.T) {
	database := getTestDB(t)
	ctx := context.Background()

	sc := scenarios.Build(3, 5, scenarios.CategoryTracking)
	if err := database.SaveScenario(ctx, sc); err != nil {
		t.Fatalf("SaveScenario() error: %v", err)
	}

	got, err := database.GetScenario(ctx, sc.ID)
	if err != nil {
		t.Fatalf("GetScenario() error: %v", err)
	}
	if got.Name != sc.Name || got.Difficulty != sc.Difficulty || got.Category != sc.Category {
		t.Errorf("got %+v, want %+v", got, sc)
	}
	if got.Options.SpawnRate != sc.Options.SpawnRate || got.Options.MovingTargets != sc.Options.MovingTargets {
		t.Errorf("options = %+v, want %+v", got.Options, sc.Options)
	}

	sc.Name = "Renamed"
	if err := database.SaveScenario(ctx, sc); err != nil {
		t.Fatalf("upsert error: %v", err)
	}
	got, _ = database.GetScenario(ctx, sc.ID)
	if got.Name != "Renamed" {
		t.Errorf("Name after upsert = %q", got.Name)
	}
}

func TestGetScenario_NotFound(t *testing.T) {
	database := getTestDB(t)
	_, err := database.GetScenario(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetScenario() error = %v, want ErrNotFound", err)
	}
}

func TestListScenarios(t *testing.T) {
	database := getTestDB(t)
	ctx := context.Background()

	for _, sc := range scenarios.Generate(100, scenarios.CategorySpeed)[:3] {
		database.SaveScenario(ctx, sc)
	}
	for _, sc := range scenarios.Generate(200, scenarios.CategoryFlick)[:2] {
		database.SaveScenario(ctx, sc)
	}

	all, err := database.ListScenarios(ctx, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("ListScenarios(all) = %d, want 5", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Difficulty < all[i-1].Difficulty {
			t.Error("scenarios not ordered by difficulty")
		}
	}

	flick, err := database.ListScenarios(ctx, []string{"Flick"}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(flick) != 2 {
		t.Errorf("ListScenarios(Flick) = %d, want 2", len(flick))
	}
}

func TestDeleteScenario(t *testing.T) {
	database := getTestDB(t)
	ctx := context.Background()

	sc := scenarios.Build(1, 0, scenarios.CategoryPrecision)
	database.SaveScenario(ctx, sc)
	if err := database.DeleteScenario(ctx, sc.ID); err != nil {
		t.Fatal(err)
	}
	if err := database.DeleteScenario(ctx, sc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}
