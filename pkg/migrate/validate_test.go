package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"
)

func writeMigration(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestValidateDirReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20261001090000_ok.sql", "-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n")
	writeMigration(t, dir, "20261001090000_dupe.sql", "-- +goose Up\nSELECT 1;\n-- +goose Down\n")
	writeMigration(t, dir, "bad-name.sql", "-- +goose Up\n")
	writeMigration(t, dir, "20261001090100_reversed.sql", "-- +goose Down\nSELECT 1;\n-- +goose Up\nSELECT 1;\n")
	writeMigration(t, dir, "20261001090200_empty_up.sql", "-- +goose Up\n\n-- +goose Down\nSELECT 1;\n")
	writeMigration(t, dir, "README.md", "ignored")

	err := ValidateDir(dir)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	errs := multierr.Errors(err)
	if len(errs) != 4 {
		t.Fatalf("expected 4 problems, got %d: %v", len(errs), err)
	}
	for _, want := range []string{"duplicate migration version", "invalid migration filename", "Down section before Up", "empty Up section"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestValidateDirRequiresDir(t *testing.T) {
	if err := ValidateDir(""); err == nil {
		t.Fatal("expected error for empty dir")
	}
	if err := ValidateDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing dir")
	}
}
