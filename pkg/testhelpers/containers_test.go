//go:build integration

package testhelpers

import (
	"context"
	"testing"
)

func TestBlueprintDB_MigrationsApplied(t *testing.T) {
	engineDB := GetBlueprintDB(t)

	ctx := context.Background()

	var tableCount int
	err := engineDB.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name LIKE 'bp\_%'`).
		Scan(&tableCount)
	if err != nil {
		t.Fatalf("failed to count tables: %v", err)
	}

	if tableCount != 5 {
		t.Errorf("expected 5 application tables, got %d", tableCount)
	}
}

func TestGetTestRedis(t *testing.T) {
	client := GetTestRedis(t)

	ctx := context.Background()
	if err := client.Set(ctx, "k", "v", 0).Err(); err != nil {
		t.Fatalf("failed to set key: %v", err)
	}
	if got := client.Get(ctx, "k").Val(); got != "v" {
		t.Errorf("expected v, got %q", got)
	}
}
