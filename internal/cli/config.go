package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const maxWalkDepth = 25

// ConfigNames are the file names looked up by config discovery, in order.
var ConfigNames = []string{"daogen.yaml", "daogen.yml"}

// Config represents the daogen configuration from daogen.yaml.
type Config struct {
	// Schema is the path of the YAML schema definition.
	Schema string `mapstructure:"schema" yaml:"schema"`

	Generate GenerateConfig `mapstructure:"generate" yaml:"generate"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
}

// GenerateConfig holds code generation settings.
type GenerateConfig struct {
	Target      string `mapstructure:"target" yaml:"target"`
	Package     string `mapstructure:"package" yaml:"package"`
	Header      string `mapstructure:"header" yaml:"header,omitempty"`
	Sort        bool   `mapstructure:"sort" yaml:"sort"`
	Validate    bool   `mapstructure:"validate" yaml:"validate"`
	SchemaConst bool   `mapstructure:"schema_const" yaml:"schema_const"`
	GraphQL     string `mapstructure:"graphql" yaml:"graphql,omitempty"`
	GQLGen      string `mapstructure:"gqlgen" yaml:"gqlgen,omitempty"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Driver selects the client library: "postgres" (lib/pq) or "pgx".
	Driver   string `mapstructure:"driver" yaml:"driver"`
	URL      string `mapstructure:"url" yaml:"url,omitempty"`
	Host     string `mapstructure:"host" yaml:"host,omitempty"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Name     string `mapstructure:"name" yaml:"name,omitempty"`
	User     string `mapstructure:"user" yaml:"user,omitempty"`
	Password string `mapstructure:"password" yaml:"-"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode"`
	// SearchPath lists the schemas apply creates tables in, comma-separated.
	SearchPath string `mapstructure:"search_path" yaml:"search_path,omitempty"`
}

// LoadConfig discovers and loads configuration with proper precedence:
// flags > env > config file > defaults.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DAOGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("schema", "schema.yaml")

	v.SetDefault("generate.target", "dao")
	v.SetDefault("generate.package", "dao")
	v.SetDefault("generate.header", "")
	v.SetDefault("generate.sort", false)
	v.SetDefault("generate.validate", false)
	v.SetDefault("generate.schema_const", true)
	v.SetDefault("generate.graphql", "")
	v.SetDefault("generate.gqlgen", "")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslmode", "prefer")
	v.SetDefault("database.search_path", "")
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for daogen.yaml or daogen.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}
	dir := cwd
	for range maxWalkDepth {
		for _, name := range ConfigNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

// DSN returns the database connection string.
// If database.url is set, it's returned directly.
// Otherwise, builds a DSN from discrete fields.
func (c *Config) DSN() (string, error) {
	db := c.Database
	if db.URL != "" {
		return db.URL, nil
	}
	switch {
	case db.Host == "":
		return "", fmt.Errorf("database.host is required when database.url is not set")
	case db.Name == "":
		return "", fmt.Errorf("database.name is required when database.url is not set")
	case db.User == "":
		return "", fmt.Errorf("database.user is required when database.url is not set")
	}
	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   "/" + db.Name,
	}
	if db.Password != "" {
		u.User = url.UserPassword(db.User, db.Password)
	} else {
		u.User = url.User(db.User)
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
