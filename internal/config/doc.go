// Package config manages user-level settings stored at ~/.sharedcfg/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the default resource path and the permission modes used while a shared
// file is locked or being updated.
package config
