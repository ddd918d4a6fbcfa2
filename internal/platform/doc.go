// Package platform provides the filesystem primitives the shared resource is
// built on: hard and symbolic link creation, inode identity, permission
// changes and advisory whole-file locks. On Unix systems it calls the kernel
// directly through golang.org/x/sys/unix. Elsewhere inode identity falls back
// to os.SameFile and locking is unavailable.
package platform
