package database

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

type pingModel struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

func TestInitDB_SQLiteMemory(t *testing.T) {
	db, err := InitDB(Options{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 10,
		LogLevel:     "silent",
	}, zap.NewNop(), &pingModel{})
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}

	if err := Ping(db); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	sqlDB, _ := db.DB()
	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Errorf("MaxOpenConnections = %d, want 1", got)
	}

	if err := db.Create(&pingModel{Name: "a"}).Error; err != nil {
		t.Fatalf("create error = %v", err)
	}
	var count int64
	db.Model(&pingModel{}).Count(&count)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestInitDB_UnknownDriver(t *testing.T) {
	if _, err := InitDB(Options{Driver: "mysql", DSN: "x"}, zap.NewNop()); err == nil {
		t.Errorf("expected error for unsupported driver")
	}
}

func TestParseGormLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"silent": logger.Silent,
		"ERROR":  logger.Error,
		"info":   logger.Info,
		"":       logger.Warn,
	}
	for in, want := range tests {
		if got := parseGormLevel(in); got != want {
			t.Errorf("parseGormLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
