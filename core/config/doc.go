// Package config provides configuration management for layout-sync.
//
// It uses Viper to read environment variables, optionally seeded from a .env
// file via godotenv. Defaults come from the `default` struct tags of each
// section.
//
// # Configuration Structure
//
//   - Corpus: corpus root directory and reserved name prefixes
//   - Database: catalog connection (postgres, mysql or sqlite)
//   - Storage: S3/MinIO settings for publishing piece images
//   - Server: HTTP API port and key
//   - Log: logging level and format
//
// Nested keys map to upper-case environment variables joined by underscores,
// e.g. corpus.root is CORPUS_ROOT and database.host is DATABASE_HOST.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Corpus.Root)
package config
