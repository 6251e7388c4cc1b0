package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleFile = `
runtime {
  candidates = ["/opt/mono/bin/mono", "/usr/bin/mono"]
  native     = false
}

game {
  directory = "/games/openra"
  renderer  = "cg"
}

downloads {
  directory    = "/tmp/openra-downloads"
  max_parallel = 3
  rate_limit   = "512KB"
  fetch_limit  = "1MB"
}

log {
  level  = "debug"
  format = "json"
}
`

func TestParseFile(t *testing.T) {
	f, err := ParseFile([]byte(sampleFile), "launcher.hcl")
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	if f.Runtime == nil || len(f.Runtime.Candidates) != 2 {
		t.Fatalf("Expected 2 runtime candidates, got %+v", f.Runtime)
	}
	if f.Runtime.Native == nil || *f.Runtime.Native {
		t.Error("Expected native to be set to false")
	}
	if f.Game == nil || f.Game.Directory != "/games/openra" {
		t.Errorf("Expected game directory /games/openra, got %+v", f.Game)
	}
	if f.Downloads == nil || f.Downloads.MaxParallel != 3 {
		t.Errorf("Expected max_parallel 3, got %+v", f.Downloads)
	}
	if f.Log == nil || f.Log.Format != "json" {
		t.Errorf("Expected json log format, got %+v", f.Log)
	}
}

func TestParseFile_Empty(t *testing.T) {
	f, err := ParseFile([]byte(""), "empty.hcl")
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if f.Runtime != nil || f.Game != nil || f.Downloads != nil || f.Log != nil {
		t.Errorf("Expected no blocks, got %+v", f)
	}
}

func TestParseFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"syntax", `game {`, "failed to parse"},
		{"unknown block", `network { }`, "failed to decode"},
		{"wrong type", `downloads { max_parallel = "many" }`, "failed to decode"},
		{"negative parallel", `downloads { max_parallel = -1 }`, "max_parallel"},
		{"bad log format", `log { format = "xml" }`, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile([]byte(tt.src), "bad.hcl")
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	f, err := LoadFile(filepath.Join(t.TempDir(), DefaultFileName))
	if err != nil {
		t.Fatalf("Expected missing file to be ignored, got %v", err)
	}
	if f == nil {
		t.Fatal("Expected empty file, got nil")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(sampleFile), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if f.Game == nil || f.Game.Renderer != "cg" {
		t.Errorf("Expected renderer cg, got %+v", f.Game)
	}
}
