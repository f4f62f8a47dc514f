package layout

// Config describes where the corpus lives and which top-level entries to skip.
type Config struct {
	// Root is the corpus root directory.
	Root string `mapstructure:"root" default:"."`
	// ReservedPrefixes lists name prefixes of top-level entries that are not
	// layout categories (organizational or hidden directories).
	ReservedPrefixes []string `mapstructure:"reserved_prefixes" default:"@,.,node_modules"`
}

// Corpus file and directory names.
const (
	DetailsFile = "details.json"
	LayoutFile  = "layout.json"
	CommonFile  = "common.json"
	PiecesDir   = "pieces"
	ValueExt    = ".json"
	ImageExt    = ".png"
)
