// Package identity assigns persistent identifiers to JSON documents on disk.
//
// Every layout and piece value in the corpus carries a UUID inside its own
// JSON file. The first scan that finds a document without one generates a
// UUID and patches it into the file; every later scan reads it back, so the
// identifier survives renames and moves of the surrounding directories.
//
// The work is split in two phases so each can be exercised alone:
//
//   - ReadIdentifier inspects a document without side effects.
//   - AssignAndPersist generates an identifier and writes the patched
//     document back through the afero filesystem.
//
// Ensure combines both and is what the layout loader uses.
package identity
