package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Default()
	if got != want {
		t.Errorf("expected defaults, got: %+v", got)
	}
	b, err := os.ReadFile(filepath.Join(dir, configFileName))
	if err != nil {
		t.Fatalf("expected config file on disk: %v", err)
	}
	testboil.AssertStringContains(t, string(b), "Meta-Llama-3.1-70B-Instruct")
}

func TestLoadReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	cfgJSON := `{"model":"other-model","temperature":0.5}`
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(cfgJSON), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Model != "other-model" {
		t.Errorf("expected file value, got: %v", got.Model)
	}
	if got.Temperature != 0.5 {
		t.Errorf("expected file value, got: %v", got.Temperature)
	}
}

func TestLoadBackfillsNewFields(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(`{"model":"other-model"}`), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MaxRollouts != Default().MaxRollouts {
		t.Errorf("expected missing field backfilled, got: %v", got.MaxRollouts)
	}
	// The backfill is persisted
	b, err := os.ReadFile(filepath.Join(dir, configFileName))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.AssertStringContains(t, string(b), "max_rollouts")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RECOMMENDER_MODEL", "env-model")
	t.Setenv("RECOMMENDER_PORT", "9999")
	t.Setenv("RECOMMENDER_TEMPERATURE", "0.7")
	got, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Model != "env-model" {
		t.Errorf("expected env override, got: %v", got.Model)
	}
	if got.Port != 9999 {
		t.Errorf("expected env override, got: %v", got.Port)
	}
	if got.Temperature != 0.7 {
		t.Errorf("expected env override, got: %v", got.Temperature)
	}
}

func TestLoadIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("RECOMMENDER_PORT", "not-a-number")
	got, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Port != Default().Port {
		t.Errorf("expected default port, got: %v", got.Port)
	}
}

func TestLoadBrokenFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte("{nope"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error on broken config file")
	}
}
