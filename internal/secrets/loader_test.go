package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  file-secret\n"), 0o600); err != nil {
		t.Fatalf("writing secret file: %v", err)
	}

	got, err := Load(Source{Name: "api key", File: path, Value: "inline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "file-secret" {
		t.Fatalf("expected file-secret, got %q", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TM_TEST_SECRET", " env-secret ")

	got, err := Load(Source{Name: "api key", Env: "TM_TEST_SECRET", Value: "inline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "env-secret" {
		t.Fatalf("expected env-secret, got %q", got)
	}
}

func TestLoadFromValue(t *testing.T) {
	got, err := Load(Source{Name: "api key", Env: "TM_TEST_SECRET_UNSET", Value: " inline "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "inline" {
		t.Fatalf("expected inline, got %q", got)
	}
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		src     Source
		wantErr string
	}{
		{
			name:    "nothing configured",
			src:     Source{Name: "api key"},
			wantErr: "api key is not configured",
		},
		{
			name:    "missing file",
			src:     Source{Name: "api key", File: filepath.Join(t.TempDir(), "absent")},
			wantErr: "reading api key from file",
		},
		{
			name:    "unnamed secret",
			src:     Source{},
			wantErr: "secret is not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.src)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %q", tt.wantErr, err)
			}
		})
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatalf("writing secret file: %v", err)
	}

	if _, err := Load(Source{Name: "api key", File: path}); err == nil {
		t.Fatal("expected an error for empty secret file")
	}
}
