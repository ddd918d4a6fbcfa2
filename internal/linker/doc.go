// Package linker records which names share a resource and keeps them intact.
// The list lives in .sharedcfg/<file>.links.yaml next to the resource. Add and
// Remove create and drop hard or symbolic links, Status reports whether each
// name still resolves to the resource's inode, and Sync re-creates names that
// have gone missing or been detached by an editor that saves by rename.
package linker
