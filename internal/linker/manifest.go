package linker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/sharedcfg-labs/sharedcfg/internal/branding"
	"github.com/sharedcfg-labs/sharedcfg/internal/platform"
	"go.yaml.in/yaml/v3"
)

const (
	manifestSuffix = ".links.yaml"

	// ManifestVersion is written into new manifests.
	ManifestVersion = "1.0.0"
	// supportedVersions is the range of manifest versions this build reads.
	supportedVersions = "^1.0.0"
)

// Kind is the type of directory entry a link creates.
type Kind string

const (
	KindHard     Kind = "hard"
	KindSymbolic Kind = "symbolic"
)

// ParseKind accepts "hard" or "symbolic".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindHard, KindSymbolic:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown link kind %q: expected hard or symbolic", s)
	}
}

// Manifest is the .sharedcfg/<file>.links.yaml structure.
type Manifest struct {
	Version  string `yaml:"version"`
	Resource string `yaml:"resource"`
	Links    []Link `yaml:"links,omitempty"`
}

// Link is one recorded name. Name is stored relative to the resource's
// directory when possible.
type Link struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`
}

// ManifestPath returns the manifest location for a resource.
func ManifestPath(resourcePath string) string {
	dir := filepath.Dir(resourcePath)
	return filepath.Join(dir, branding.HomeDir(), filepath.Base(resourcePath)+manifestSuffix)
}

// LoadManifest reads the manifest for resourcePath. A missing manifest is an
// empty one.
func LoadManifest(resourcePath string) (*Manifest, error) {
	path := ManifestPath(resourcePath)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Manifest{
			Version:  ManifestVersion,
			Resource: filepath.Base(resourcePath),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading link manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing link manifest: %w", err)
	}
	if err := checkVersion(m.Version); err != nil {
		return nil, fmt.Errorf("link manifest %s: %w", path, err)
	}
	return &m, nil
}

// SaveManifest writes m next to the resource.
func SaveManifest(resourcePath string, m *Manifest) error {
	path := ManifestPath(resourcePath)
	if err := os.MkdirAll(filepath.Dir(path), platform.DirPermNormal); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}

	if m.Version == "" {
		m.Version = ManifestVersion
	}
	m.Resource = filepath.Base(resourcePath)

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling link manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing link manifest: %w", err)
	}
	return nil
}

// checkVersion rejects manifests written by an incompatible major version.
func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("invalid manifest version %q: %w", v, err)
	}
	c, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return err
	}
	if !c.Check(ver) {
		return fmt.Errorf("unsupported manifest version %s (supported %s)", v, supportedVersions)
	}
	return nil
}

// find returns the index of the link whose resolved name equals abs.
func (m *Manifest) find(resourcePath, abs string) int {
	for i, l := range m.Links {
		if resolveName(resourcePath, l.Name) == abs {
			return i
		}
	}
	return -1
}

// resolveName turns a recorded name into an absolute path.
func resolveName(resourcePath, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(filepath.Dir(resourcePath), name)
}

// recordName stores abs relative to the resource directory when it can.
func recordName(resourcePath, abs string) string {
	rel, err := filepath.Rel(filepath.Dir(resourcePath), abs)
	if err != nil {
		return abs
	}
	return rel
}
