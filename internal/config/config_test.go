package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValid(t *testing.T) {
	path := writeConfig(t, "autosac.json", `[
		{"enabled": true, "name": "disk", "f": "check_disk", "args": ["c0t0d0", 32], "kwargs": {"duration": 5}},
		{"enabled": false, "name": "net", "f": "check_net", "args": [], "kwargs": {}}
	]`)

	specs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	require.True(t, specs[0].Enabled)
	require.Equal(t, "disk", specs[0].Name)
	require.Equal(t, "check_disk", specs[0].F)
	require.Equal(t, []any{"c0t0d0", float64(32)}, specs[0].Args)
	require.Equal(t, map[string]any{"duration": float64(5)}, specs[0].Kwargs)
	require.Zero(t, specs[0].Timeout)

	require.False(t, specs[1].Enabled)
	require.Empty(t, specs[1].Args)
	require.Empty(t, specs[1].Kwargs)
}

func TestLoadOptionalTimeout(t *testing.T) {
	path := writeConfig(t, "autosac.json", `[
		{"enabled": true, "name": "slow", "f": "check_cmd", "args": [], "kwargs": {}, "timeout": 1.5}
	]`)

	specs, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1500*time.Millisecond, specs[0].Timeout)
}

func TestLoadIgnoresExtraKeys(t *testing.T) {
	path := writeConfig(t, "autosac.json", `[
		{"enabled": true, "name": "disk", "f": "check_disk", "args": [], "kwargs": {}, "comment": "legacy"}
	]`)

	specs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, specs, 1)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "autosac.yaml", `
- enabled: true
  name: disk
  f: check_disk
  args: [c0t0d0]
  kwargs:
    bs: 32
`)

	specs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	require.Equal(t, []any{"c0t0d0"}, specs[0].Args)
	require.Equal(t, map[string]any{"bs": float64(32)}, specs[0].Kwargs)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, ErrRead)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeConfig(t, "autosac.json", `[{"enabled": true,`)

	_, err := Load(path)
	require.ErrorIs(t, err, ErrParse)
}

func TestLoadMissingRequiredKey(t *testing.T) {
	fields := map[string]string{
		"enabled": `"enabled": true`,
		"name":    `"name": "disk"`,
		"f":       `"f": "check_disk"`,
		"args":    `"args": []`,
		"kwargs":  `"kwargs": {}`,
	}

	for missing := range fields {
		t.Run(missing, func(t *testing.T) {
			doc := "[{"
			first := true
			for field, literal := range fields {
				if field == missing {
					continue
				}
				if !first {
					doc += ", "
				}
				doc += literal
				first = false
			}
			doc += "}]"

			_, err := Load(writeConfig(t, "autosac.json", doc))
			require.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestLoadWrongFieldType(t *testing.T) {
	path := writeConfig(t, "autosac.json", `[
		{"enabled": "yes", "name": "disk", "f": "check_disk", "args": [], "kwargs": {}}
	]`)

	_, err := Load(path)
	require.ErrorIs(t, err, ErrSchema)
}

func TestLoadTopLevelNotArray(t *testing.T) {
	path := writeConfig(t, "autosac.json", `{"enabled": true}`)

	_, err := Load(path)
	require.ErrorIs(t, err, ErrSchema)
}
