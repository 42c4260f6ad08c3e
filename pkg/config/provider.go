package config

import (
	"fmt"
	"strings"
)

// Storage backend types
const (
	BackendSQLite      = "sqlite"
	BackendTimescaleDB = "timescaledb"
	BackendECADFile    = "ecadfile"
)

// Defaults applied by ApplyDefaults
const (
	DefaultListenAddr = "0.0.0.0"
	DefaultHTTPPort   = 8080
	DefaultSQLitePath = "data/ecad.db"
	DefaultECADDir    = "data"
	DefaultPageTitle  = "Weather stations"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	RESTServer RESTServerData `json:"rest"`
	Storage    StorageData    `json:"storage"`
	Chart      ChartData      `json:"chart,omitempty"`
	Logging    LoggingData    `json:"logging,omitempty"`
}

type RESTServerData struct {
	Cert       string `json:"cert,omitempty"`
	Key        string `json:"key,omitempty"`
	Port       int    `json:"port,omitempty"`
	ListenAddr string `json:"listen_addr,omitempty"`
	PageTitle  string `json:"page_title,omitempty"`
}

// StorageData selects and configures the station repository
type StorageData struct {
	Backend     string           `json:"backend"`
	SQLite      *SQLiteData      `json:"sqlite,omitempty"`
	TimescaleDB *TimescaleDBData `json:"timescaledb,omitempty"`
	ECADFile    *ECADFileData    `json:"ecadfile,omitempty"`
}

type SQLiteData struct {
	Path string `json:"path"`
}

type TimescaleDBData struct {
	ConnectionString string `json:"connection_string"`
}

type ECADFileData struct {
	Dir          string `json:"dir"`
	StationsFile string `json:"stations_file,omitempty"`
}

// ChartData holds the canvas size for /visualization
type ChartData struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// LoggingData configures optional file logging with rotation
type LoggingData struct {
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty"`
}

// ApplyDefaults fills in unset values
func (c *ConfigData) ApplyDefaults() {
	if c.RESTServer.ListenAddr == "" {
		c.RESTServer.ListenAddr = DefaultListenAddr
	}
	if c.RESTServer.Port == 0 {
		c.RESTServer.Port = DefaultHTTPPort
	}
	if c.RESTServer.PageTitle == "" {
		c.RESTServer.PageTitle = DefaultPageTitle
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendSQLite
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.SQLite == nil {
			c.Storage.SQLite = &SQLiteData{}
		}
		if c.Storage.SQLite.Path == "" {
			c.Storage.SQLite.Path = DefaultSQLitePath
		}
	case BackendECADFile:
		if c.Storage.ECADFile == nil {
			c.Storage.ECADFile = &ECADFileData{}
		}
		if c.Storage.ECADFile.Dir == "" {
			c.Storage.ECADFile.Dir = DefaultECADDir
		}
	}
}

// Validate checks that the configuration is usable
func (c *ConfigData) Validate() error {
	if c.RESTServer.Port < 0 || c.RESTServer.Port > 65535 {
		return fmt.Errorf("invalid rest port %d", c.RESTServer.Port)
	}
	if (c.RESTServer.Cert == "") != (c.RESTServer.Key == "") {
		return fmt.Errorf("rest cert and key must be provided together")
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.SQLite == nil || c.Storage.SQLite.Path == "" {
			return fmt.Errorf("sqlite storage requires a path")
		}
	case BackendTimescaleDB:
		if c.Storage.TimescaleDB == nil || c.Storage.TimescaleDB.ConnectionString == "" {
			return fmt.Errorf("timescaledb storage requires a connection string")
		}
	case BackendECADFile:
		if c.Storage.ECADFile == nil || c.Storage.ECADFile.Dir == "" {
			return fmt.Errorf("ecadfile storage requires a directory")
		}
	default:
		return fmt.Errorf("unsupported storage backend: %s", c.Storage.Backend)
	}

	if c.Chart.Width < 0 || c.Chart.Height < 0 {
		return fmt.Errorf("chart dimensions must not be negative")
	}
	return nil
}
