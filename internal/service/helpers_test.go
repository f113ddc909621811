package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/healthmeal/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close(gdb)
	})
	return gdb
}

func createTestUser(t *testing.T, users *UserService, email string) *db.User {
	t.Helper()
	user, err := users.Register(UserInput{Email: email, Name: "测试用户", Password: "testpass123"})
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	return user
}

func mustDate(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := ParseDate(raw)
	if err != nil {
		t.Fatalf("failed to parse date %s: %v", raw, err)
	}
	return parsed
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}
