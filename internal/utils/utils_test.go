package utils

import (
	"path/filepath"
	"testing"
)

func TestCreateFileAndReadAndUnmarshal(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	path := filepath.Join(t.TempDir(), "payload.json")
	want := payload{Name: "test", Count: 3}
	if err := CreateFile(path, &want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got payload
	if err := ReadAndUnmarshal(path, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("expected: %+v, got: %+v", want, got)
	}
}

func TestReadAndUnmarshalMissingFile(t *testing.T) {
	var got struct{}
	if err := ReadAndUnmarshal(filepath.Join(t.TempDir(), "nope.json"), &got); err == nil {
		t.Fatal("expected error on missing file")
	}
}

func TestConfigDirEnvOverride(t *testing.T) {
	t.Setenv("RECOMMENDER_CONFIG_HOME", "/tmp/custom")
	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/tmp/custom" {
		t.Errorf("expected override, got: %v", got)
	}
}
