package scenario

import (
	"bytes"
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sharedcfg-labs/sharedcfg/internal/store"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	result, err := Run(context.Background(), &out, dir, store.Options{})
	require.NoError(t, err, out.String())

	require.True(t, result.Updated)
	require.Len(t, result.Hosts, 3)
	for name, host := range result.Hosts {
		require.Equal(t, NewHost, host, "host via %s", name)
	}
	require.Contains(t, result.Hosts, filepath.Join(dir, "project1", "config.json"))
	require.Contains(t, result.Hosts, filepath.Join(dir, "project2", "config.json"))

	require.EqualValues(t, 0444, result.Mode)
	require.True(t, result.Survived)
	require.True(t, result.Dangling)
	if runtime.GOOS != "windows" {
		require.EqualValues(t, 3, result.Links)
	}
	require.Contains(t, out.String(), "Configuration updated successfully.")
}

func TestRunIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	_, err := Run(context.Background(), &out, dir, store.Options{})
	require.NoError(t, err)

	result, err := Run(context.Background(), &out, dir, store.Options{})
	require.NoError(t, err, out.String())
	require.True(t, result.Updated)
	require.EqualValues(t, 3, result.Links)
}
