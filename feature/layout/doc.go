// Package layout synchronizes the layout corpus with the layouts table.
//
// The corpus is a directory tree:
//
//	<root>/<category>/<layout>/details.json
//	<root>/<category>/<layout>/layout.json
//	<root>/<category>/<layout>/common.json        (optional)
//	<root>/<category>/<layout>/pieces/<option>/<value>.json
//	<root>/<category>/<layout>/pieces/<option>/<value>.png  (optional)
//
// Top-level entries whose name starts with a reserved prefix are skipped.
// Every details.json and piece value file carries a persistent "uuid" field;
// files without one get a fresh identifier written back on load.
//
// The Loader builds Layout records from the corpus, the Adapter plugs them
// into the generic reconcile engine, the Store applies the resulting plan
// with GORM and the optional Publisher mirrors piece images to object
// storage. Service ties them together for the CLI and Handler exposes a
// read-only HTTP view.
package layout
