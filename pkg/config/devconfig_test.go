package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestLoadDevConfig(t *testing.T) {
	tests := map[string]struct {
		global       string // file content, "" means absent
		local        string
		flagEdit     *bool
		flagRegistry string
		wantConsent  Consent
		wantRegistry string
	}{
		"no config files leaves consent unset": {
			wantConsent: ConsentUnset,
		},
		"global config alone applies": {
			global:      "edit_files = true\n",
			wantConsent: ConsentAllow,
		},
		"local config overrides global": {
			global:      "edit_files = true\n",
			local:       "edit_files = false\n",
			wantConsent: ConsentDeny,
		},
		"flag overrides both config layers": {
			global:      "edit_files = false\n",
			local:       "edit_files = false\n",
			flagEdit:    boolPtr(true),
			wantConsent: ConsentAllow,
		},
		"registry merges across layers": {
			global:       "registry = \"https://registry.example.com\"\n",
			local:        "edit_files = true\n",
			wantConsent:  ConsentAllow,
			wantRegistry: "https://registry.example.com",
		},
		"registry flag wins": {
			global:       "registry = \"https://registry.example.com\"\n",
			flagRegistry: "https://mirror.example.com",
			wantConsent:  ConsentUnset,
			wantRegistry: "https://mirror.example.com",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			globalPath := filepath.Join(dir, "global-config.toml")
			localPath := filepath.Join(dir, LocalConfigFile)

			if tc.global != "" {
				writeTestConfig(t, globalPath, tc.global)
			}
			if tc.local != "" {
				writeTestConfig(t, localPath, tc.local)
			}

			cfg, err := loadDevConfig(tc.flagEdit, tc.flagRegistry, globalPath, localPath)
			if err != nil {
				t.Fatalf("loadDevConfig() error = %v", err)
			}

			if got := cfg.EditConsent(); got != tc.wantConsent {
				t.Errorf("EditConsent() = %v, want %v", got, tc.wantConsent)
			}
			if cfg.Registry != tc.wantRegistry {
				t.Errorf("Registry = %q, want %q", cfg.Registry, tc.wantRegistry)
			}
		})
	}
}

func TestWriteLocalDevConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()

	allow := true
	if err := WriteLocalDevConfig(dir, &DevConfig{EditFiles: &allow}); err != nil {
		t.Fatalf("WriteLocalDevConfig() error = %v", err)
	}

	// Point the global layer at a missing file so only the local file counts.
	cfg, err := loadDevConfig(nil, "", filepath.Join(dir, "absent.toml"), filepath.Join(dir, LocalConfigFile))
	if err != nil {
		t.Fatalf("loadDevConfig() error = %v", err)
	}
	if cfg.EditConsent() != ConsentAllow {
		t.Errorf("EditConsent() = %v, want ConsentAllow", cfg.EditConsent())
	}
}

func boolPtr(b bool) *bool { return &b }
