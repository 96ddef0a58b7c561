// Package dbtest opens throwaway sqlite warehouses for tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/salesdw/internal/migration"
	referencedomain "github.com/smallbiznis/salesdw/internal/reference/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var nameReplacer = strings.NewReplacer("/", "_", " ", "_")

// Open returns an in-memory database private to t with the full schema applied.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", nameReplacer.Replace(t.Name()))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migration.Run(conn, "sqlite"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func MustNode(t testing.TB) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}

func Ptr[T any](v T) *T {
	return &v
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SeedStatuses inserts the default status enumeration.
func SeedStatuses(t testing.TB, conn *gorm.DB) {
	t.Helper()
	rows := append([]referencedomain.Status(nil), referencedomain.DefaultStatuses...)
	if err := conn.WithContext(context.Background()).Create(&rows).Error; err != nil {
		t.Fatalf("seed statuses: %v", err)
	}
}

// SeedCalendar inserts one calendar row per day.
func SeedCalendar(t testing.TB, conn *gorm.DB, days ...time.Time) {
	t.Helper()
	if len(days) == 0 {
		return
	}
	rows := make([]referencedomain.Calendar, 0, len(days))
	for _, day := range days {
		rows = append(rows, referencedomain.NewCalendarDay(day))
	}
	if err := conn.WithContext(context.Background()).Create(&rows).Error; err != nil {
		t.Fatalf("seed calendar: %v", err)
	}
}
