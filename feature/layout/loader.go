package layout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"layout-sync/core/identity"

	"github.com/spf13/afero"
	"gorm.io/datatypes"
)

// Loader builds Layout records from the corpus.
type Loader struct {
	fs       afero.Fs
	cfg      Config
	assigner *identity.Assigner
	now      func() time.Time
}

// NewLoader creates a Loader reading the corpus at cfg.Root from fs.
// Missing identifiers are assigned and written back through assigner.
func NewLoader(fs afero.Fs, cfg Config, assigner *identity.Assigner) *Loader {
	return &Loader{
		fs:       fs,
		cfg:      cfg,
		assigner: assigner,
		now:      time.Now,
	}
}

// Load scans the whole corpus and returns one Layout per layout directory.
// Any unreadable or malformed artifact fails the whole load.
func (l *Loader) Load(ctx context.Context) ([]Layout, error) {
	dirs, err := l.layoutDirs()
	if err != nil {
		return nil, err
	}

	scannedAt := l.now()
	layouts := make([]Layout, 0, len(dirs))
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		layout, err := l.loadLayout(dir, scannedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to load layout %s: %w", dir, err)
		}
		layouts = append(layouts, *layout)
	}

	return layouts, nil
}

// layoutDirs lists <root>/<category>/<layout> directories, skipping reserved
// and non-directory top-level entries.
func (l *Loader) layoutDirs() ([]string, error) {
	categories, err := afero.ReadDir(l.fs, l.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to list corpus root %s: %w", l.cfg.Root, err)
	}

	var dirs []string
	for _, category := range categories {
		if !category.IsDir() || l.isReserved(category.Name()) {
			continue
		}

		categoryDir := filepath.Join(l.cfg.Root, category.Name())
		entries, err := afero.ReadDir(l.fs, categoryDir)
		if err != nil {
			return nil, fmt.Errorf("failed to list category %s: %w", categoryDir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				dirs = append(dirs, filepath.Join(categoryDir, entry.Name()))
			}
		}
	}

	return dirs, nil
}

func (l *Loader) isReserved(name string) bool {
	for _, prefix := range l.cfg.ReservedPrefixes {
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (l *Loader) loadLayout(dir string, scannedAt time.Time) (*Layout, error) {
	id, detailsDoc, err := l.assigner.Ensure(filepath.Join(dir, DetailsFile))
	if err != nil {
		return nil, err
	}

	var details map[string]any
	if err := json.Unmarshal(detailsDoc, &details); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", DetailsFile, err)
	}

	layoutPath := filepath.Join(dir, LayoutFile)
	baseLayout, err := afero.ReadFile(l.fs, layoutPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedLayout, err)
	}
	target, err := TargetFromLayout(string(baseLayout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", layoutPath, err)
	}

	commonLayout, err := l.readOptional(filepath.Join(dir, CommonFile))
	if err != nil {
		return nil, err
	}

	pieces, err := l.loadPieces(filepath.Join(dir, PiecesDir))
	if err != nil {
		return nil, err
	}

	return &Layout{
		ID:           id,
		Details:      datatypes.JSONMap(details),
		BaseLayout:   string(baseLayout),
		Target:       target,
		LastUpdated:  scannedAt,
		Pieces:       pieces,
		CommonLayout: commonLayout,
		CreatorID:    creatorID(details),
		SourceDir:    dir,
	}, nil
}

// readOptional returns nil when the file does not exist.
func (l *Loader) readOptional(path string) (*string, error) {
	data, err := afero.ReadFile(l.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := string(data)
	return &content, nil
}

func (l *Loader) loadPieces(piecesDir string) ([]PieceOption, error) {
	pieces := []PieceOption{}

	exists, err := afero.DirExists(l.fs, piecesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", piecesDir, err)
	}
	if !exists {
		return pieces, nil
	}

	entries, err := afero.ReadDir(l.fs, piecesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", piecesDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		option, err := l.loadOption(piecesDir, entry.Name())
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, *option)
	}

	return pieces, nil
}

func (l *Loader) loadOption(piecesDir, dirName string) (*PieceOption, error) {
	optionDir := filepath.Join(piecesDir, dirName)
	entries, err := afero.ReadDir(l.fs, optionDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", optionDir, err)
	}

	files := make(map[string]struct{}, len(entries))
	var valueFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files[entry.Name()] = struct{}{}
		if strings.HasSuffix(entry.Name(), ValueExt) {
			valueFiles = append(valueFiles, entry.Name())
		}
	}

	values := make([]PieceValue, 0, len(valueFiles))
	for _, file := range valueFiles {
		stem := strings.TrimSuffix(file, ValueExt)

		id, doc, err := l.assigner.Ensure(filepath.Join(optionDir, file))
		if err != nil {
			return nil, err
		}

		var content map[string]any
		if err := json.Unmarshal(doc, &content); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Join(optionDir, file), err)
		}
		delete(content, l.assigner.Field())

		value := PieceValue{ID: id, Value: true, Content: content}
		if len(valueFiles) > 1 {
			value.Value = stem
		}
		if _, ok := files[stem+ImageExt]; ok {
			image := stem + ImageExt
			value.Image = &image
		}

		values = append(values, value)
	}

	return &PieceOption{
		Name:   OptionName(dirName),
		Values: values,
		Dir:    dirName,
	}, nil
}
