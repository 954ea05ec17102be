package main

import "testing"

func TestMigrationsDir(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv("MIGRATIONS_DIR", "")
		if got := migrationsDir(); got != "db/migrations" {
			t.Errorf("expected default db/migrations, got %s", got)
		}
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("MIGRATIONS_DIR", "/tmp/custom")
		if got := migrationsDir(); got != "/tmp/custom" {
			t.Errorf("expected /tmp/custom, got %s", got)
		}
	})
}
