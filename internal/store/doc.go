// Package store owns the shared configuration resource: a single file whose
// inode may be reachable through many hard-linked names.
//
// Between updates the file rests in a read-only mode. Update runs the
// controlled procedure: take the lock, remember the mode, make the file
// writable, read-modify-write the document in place, then restore the
// remembered mode whether or not the edit succeeded. Content is written into
// the existing inode rather than renamed over it, since a rename would detach
// every other name.
package store
