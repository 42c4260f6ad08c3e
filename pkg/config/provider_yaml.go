package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files.
// ${VAR} references in the file are expanded from the environment, which is
// first populated from an optional .env file.
type YAMLProvider struct {
	filename string
	envFiles []string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider. envFiles are
// loaded with godotenv before expansion; missing files are ignored.
func NewYAMLProvider(filename string, envFiles ...string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
		envFiles: envFiles,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	if y.config != nil {
		return y.config, nil
	}

	for _, f := range y.envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		// Variables already present in the environment take precedence
		if err := godotenv.Load(f); err != nil {
			return nil, err
		}
	}

	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var yamlConfig struct {
		RESTServer RESTServerYAML `yaml:"rest,omitempty"`
		Storage    StorageYAML    `yaml:"storage,omitempty"`
		Chart      ChartYAML      `yaml:"chart,omitempty"`
		Logging    LoggingYAML    `yaml:"logging,omitempty"`
	}

	err = yaml.Unmarshal([]byte(os.ExpandEnv(string(cfgFile))), &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		RESTServer: RESTServerData{
			Cert:       yamlConfig.RESTServer.Cert,
			Key:        yamlConfig.RESTServer.Key,
			Port:       yamlConfig.RESTServer.Port,
			ListenAddr: yamlConfig.RESTServer.ListenAddr,
			PageTitle:  yamlConfig.RESTServer.PageTitle,
		},
		Storage: StorageData{
			Backend: yamlConfig.Storage.Backend,
		},
		Chart: ChartData{
			Width:  yamlConfig.Chart.Width,
			Height: yamlConfig.Chart.Height,
		},
		Logging: LoggingData{
			File:       yamlConfig.Logging.File,
			MaxSizeMB:  yamlConfig.Logging.MaxSizeMB,
			MaxBackups: yamlConfig.Logging.MaxBackups,
			MaxAgeDays: yamlConfig.Logging.MaxAgeDays,
		},
	}

	if yamlConfig.Storage.SQLite.Path != "" {
		config.Storage.SQLite = &SQLiteData{
			Path: yamlConfig.Storage.SQLite.Path,
		}
	}
	if yamlConfig.Storage.TimescaleDB.ConnectionString != "" {
		config.Storage.TimescaleDB = &TimescaleDBData{
			ConnectionString: yamlConfig.Storage.TimescaleDB.ConnectionString,
		}
	}
	if yamlConfig.Storage.ECADFile.Dir != "" {
		config.Storage.ECADFile = &ECADFileData{
			Dir:          yamlConfig.Storage.ECADFile.Dir,
			StationsFile: yamlConfig.Storage.ECADFile.StationsFile,
		}
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	y.config = config
	return config, nil
}

// IsReadOnly returns true since YAML files are treated as read-only
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs for unmarshaling
type RESTServerYAML struct {
	Cert       string `yaml:"cert,omitempty"`
	Key        string `yaml:"key,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	ListenAddr string `yaml:"listen-addr,omitempty"`
	PageTitle  string `yaml:"page-title,omitempty"`
}

type StorageYAML struct {
	Backend     string          `yaml:"backend,omitempty"`
	SQLite      SQLiteYAML      `yaml:"sqlite,omitempty"`
	TimescaleDB TimescaleDBYAML `yaml:"timescaledb,omitempty"`
	ECADFile    ECADFileYAML    `yaml:"ecadfile,omitempty"`
}

type SQLiteYAML struct {
	Path string `yaml:"path,omitempty"`
}

type TimescaleDBYAML struct {
	ConnectionString string `yaml:"connection-string,omitempty"`
}

type ECADFileYAML struct {
	Dir          string `yaml:"dir,omitempty"`
	StationsFile string `yaml:"stations-file,omitempty"`
}

type ChartYAML struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

type LoggingYAML struct {
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max-size-mb,omitempty"`
	MaxBackups int    `yaml:"max-backups,omitempty"`
	MaxAgeDays int    `yaml:"max-age-days,omitempty"`
}
