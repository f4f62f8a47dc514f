package layout_test

import (
	"context"
	"path/filepath"
	"testing"

	"layout-sync/core/database"
	"layout-sync/core/identity"
	"layout-sync/feature/layout"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const corpusRoot = "/corpus"

// writeCorpus writes files, keyed by path relative to corpusRoot.
func writeCorpus(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(corpusRoot, name)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
}

func readCorpus(t *testing.T, fs afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, filepath.Join(corpusRoot, name))
	require.NoError(t, err)
	return string(data)
}

func newLoader(fs afero.Fs, opts ...identity.Option) *layout.Loader {
	cfg := layout.Config{
		Root:             corpusRoot,
		ReservedPrefixes: []string{"@", ".", "node_modules"},
	}
	return layout.NewLoader(fs, cfg, identity.NewAssigner(fs, opts...))
}

func idSequence(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i]
		i++
		return id
	}
}

// lobbyCorpus is a single fully identified layout with a multi-value option,
// a toggle option and a common definition.
func lobbyCorpus() map[string]string {
	return map[string]string{
		"rooms/lobby/details.json":                   `{"uuid":"L1","name":"Lobby","creator_id":42}`,
		"rooms/lobby/layout.json":                    `{"TargetName":"Lobby.szs","Objects":[]}`,
		"rooms/lobby/common.json":                    `{"Shared":true}`,
		"rooms/lobby/pieces/01_wall_color/red.json":  `{"uuid":"V1","rgb":"f00"}`,
		"rooms/lobby/pieces/01_wall_color/red.png":   "png",
		"rooms/lobby/pieces/01_wall_color/blue.json": `{"uuid":"V2","rgb":"00f"}`,
		"rooms/lobby/pieces/02_window/on.json":       `{"uuid":"V3"}`,
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		Name:   ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newMigratedStore(t *testing.T) *layout.Store {
	t.Helper()
	store := layout.NewStore(newTestDB(t))
	require.NoError(t, store.Prepare(context.Background(), true))
	return store
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}
