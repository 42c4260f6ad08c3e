package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestYAMLProviderDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "storage:\n  backend: sqlite\n")

	cfg, err := NewYAMLProvider(path).LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.RESTServer.ListenAddr != DefaultListenAddr || cfg.RESTServer.Port != DefaultHTTPPort {
		t.Errorf("unexpected listen defaults %s:%d", cfg.RESTServer.ListenAddr, cfg.RESTServer.Port)
	}
	if cfg.Storage.SQLite == nil || cfg.Storage.SQLite.Path != DefaultSQLitePath {
		t.Errorf("unexpected sqlite defaults %+v", cfg.Storage.SQLite)
	}
	if cfg.RESTServer.PageTitle != DefaultPageTitle {
		t.Errorf("page title = %q", cfg.RESTServer.PageTitle)
	}
}

func TestYAMLProviderFull(t *testing.T) {
	body := `
rest:
  listen-addr: 127.0.0.1
  port: 9090
  page-title: ECA&D stations
storage:
  backend: ecadfile
  ecadfile:
    dir: /srv/ecad
    stations-file: sources.txt
chart:
  width: 800
  height: 400
logging:
  file: /var/log/ecadweather.log
  max-size-mb: 50
`
	path := writeFile(t, t.TempDir(), "config.yaml", body)

	cfg, err := NewYAMLProvider(path).LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.RESTServer.ListenAddr != "127.0.0.1" || cfg.RESTServer.Port != 9090 {
		t.Errorf("listen = %s:%d", cfg.RESTServer.ListenAddr, cfg.RESTServer.Port)
	}
	if cfg.Storage.Backend != BackendECADFile {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
	if cfg.Storage.ECADFile == nil || cfg.Storage.ECADFile.Dir != "/srv/ecad" || cfg.Storage.ECADFile.StationsFile != "sources.txt" {
		t.Errorf("ecadfile = %+v", cfg.Storage.ECADFile)
	}
	if cfg.Chart.Width != 800 || cfg.Chart.Height != 400 {
		t.Errorf("chart = %+v", cfg.Chart)
	}
	if cfg.Logging.File != "/var/log/ecadweather.log" || cfg.Logging.MaxSizeMB != 50 {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestYAMLProviderEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "ECADWEATHER_TEST_DB_PASSWORD=s3cret\n")
	path := writeFile(t, dir, "config.yaml", `
storage:
  backend: timescaledb
  timescaledb:
    connection-string: postgres://ecad:${ECADWEATHER_TEST_DB_PASSWORD}@db/ecad
`)
	t.Cleanup(func() { os.Unsetenv("ECADWEATHER_TEST_DB_PASSWORD") })

	cfg, err := NewYAMLProvider(path, envFile, filepath.Join(dir, "missing.env")).LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	want := "postgres://ecad:s3cret@db/ecad"
	if cfg.Storage.TimescaleDB == nil || cfg.Storage.TimescaleDB.ConnectionString != want {
		t.Errorf("connection string = %+v, want %q", cfg.Storage.TimescaleDB, want)
	}
}

func TestYAMLProviderInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown backend":         "storage:\n  backend: influxdb\n",
		"timescaledb without dsn": "storage:\n  backend: timescaledb\n",
		"cert without key":        "rest:\n  cert: /etc/cert.pem\n",
		"bad yaml":                "storage: [\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", body)
			if _, err := NewYAMLProvider(path).LoadConfig(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestYAMLProviderMissingFile(t *testing.T) {
	if _, err := NewYAMLProvider(filepath.Join(t.TempDir(), "nope.yaml")).LoadConfig(); err == nil {
		t.Fatal("expected error for missing file")
	}
}
