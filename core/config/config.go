package config

import (
	"reflect"
	"strings"

	"layout-sync/core/database"
	"layout-sync/core/logger"
	"layout-sync/core/server"
	"layout-sync/core/storage"
	"layout-sync/feature/layout"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Corpus holds the location and naming rules of the layout corpus.
	Corpus layout.Config `mapstructure:"corpus"`
	// Database holds configuration for the catalog database.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the image object storage.
	Storage storage.Config `mapstructure:"storage"`
	// Server holds configuration for the read-only HTTP API.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// LoadConfig loads configuration from environment variables and a .env file in path.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// A missing .env is normal outside local development
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. CORPUS_ROOT -> corpus.root)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues walks the struct and registers every 'mapstructure' key in Viper
// with the value of its 'default' tag.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Registering even empty defaults is what makes AutomaticEnv see the key
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
