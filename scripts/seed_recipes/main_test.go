package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/healthmeal/internal/db"
	"github.com/healthmeal/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:seed-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(gdb)
	})
	return gdb
}

func TestSeedRecipesIsIdempotent(t *testing.T) {
	gdb := setupSeedTestDB(t)

	created, err := seedRecipes(gdb)
	if err != nil {
		t.Fatalf("seedRecipes returned error: %v", err)
	}
	if created != len(starterRecipes) {
		t.Fatalf("expected %d recipes, got %d", len(starterRecipes), created)
	}

	created, err = seedRecipes(gdb)
	if err != nil {
		t.Fatalf("second seedRecipes returned error: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected no new recipes on rerun, got %d", created)
	}
}

func TestEnsureDemoUserCreatesHealthRecordOnce(t *testing.T) {
	gdb := setupSeedTestDB(t)

	first, err := ensureDemoUser(gdb)
	if err != nil {
		t.Fatalf("ensureDemoUser returned error: %v", err)
	}
	second, err := ensureDemoUser(gdb)
	if err != nil {
		t.Fatalf("ensureDemoUser rerun returned error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same demo user, got %s and %s", first.ID, second.ID)
	}

	users := service.NewUserService(gdb)
	tags, err := service.NewHealthRecordService(gdb, users).Recommend(first.ID)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(tags) == 0 || tags[0] != service.NutritionLowSalt {
		t.Fatalf("expected demo record to need low_salt, got %v", tags)
	}
}
