package config

import (
	"os"
	"path/filepath"
	"testing"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func newTestLoader(env map[string]string) *Loader {
	l := NewLoader(nil)
	l.EnvFile = ""
	l.Getenv = envMap(env)
	return l
}

func TestLoader_DefaultsOnly(t *testing.T) {
	cfg, err := newTestLoader(nil).Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database.Path != "syncgo.db" {
		t.Errorf("database.path = %s", cfg.Database.Path)
	}
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syncgo.yaml")
	content := "database:\n  path: from-file.db\nserver:\n  addr: :7000\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := newTestLoader(map[string]string{
		EnvDatabase: "from-env.db",
		EnvLogLevel: "error",
	}).Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Database.Path != "from-env.db" {
		t.Errorf("database.path = %s, want env value", cfg.Database.Path)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("server.addr = %s, want file value", cfg.Server.Addr)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("log.level = %s", cfg.Log.Level)
	}
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := newTestLoader(nil).Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoader_InvalidEnvValue(t *testing.T) {
	_, err := newTestLoader(map[string]string{EnvTimezone: "Not/AZone"}).Load("")
	if err == nil {
		t.Error("expected validation error for bad timezone")
	}
}

func TestLoader_DotEnvFile(t *testing.T) {
	const key = "SYNCGO_RULES"
	if _, set := os.LookupEnv(key); set {
		t.Skipf("%s already set in environment", key)
	}
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	rules := filepath.Join(dir, "rules.cue")
	if err := os.WriteFile(rules, []byte("base_points: 12\n"), 0644); err != nil {
		t.Fatalf("failed to write rules: %v", err)
	}
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte(key+"="+rules+"\n"), 0644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	l := NewLoader(nil)
	l.EnvFile = envFile
	cfg, err := l.Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Gamification.RulesFile != rules {
		t.Errorf("rules_file = %s, want %s", cfg.Gamification.RulesFile, rules)
	}
}

func TestLoader_MissingDotEnvIgnored(t *testing.T) {
	l := newTestLoader(nil)
	l.EnvFile = filepath.Join(t.TempDir(), ".env")
	if _, err := l.Load(""); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}
