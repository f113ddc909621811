package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	// DriverSQLite 为本地开发与测试默认使用的驱动。
	DriverSQLite = "sqlite"
	// DriverPostgres 为生产环境驱动。
	DriverPostgres = "postgres"
)

// Options 描述打开数据库所需的参数。
type Options struct {
	Driver string
	// Path 仅 sqlite 使用，为空时回退到 healthmeal.db。
	Path string
	// DSN 仅 postgres 使用。
	DSN    string
	Config *gorm.Config
}

// Open 根据驱动建立数据库连接并执行自动迁移。
func Open(opts Options) (*gorm.DB, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &gorm.Config{}
	}

	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case DriverPostgres:
		dsn := strings.TrimSpace(opts.DSN)
		if dsn == "" {
			return nil, errors.New("postgres dsn is required")
		}
		dialector = postgres.Open(dsn)
	case DriverSQLite, "":
		path := strings.TrimSpace(opts.Path)
		if path == "" {
			path = "healthmeal.db"
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	gdb, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate 为核心模型创建或更新表结构。
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&User{},
		&HealthRecord{},
		&Recipe{},
		&Meal{},
		&MealPlan{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Close 释放底层连接池。
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") || path == ":memory:" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
