package checks

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIBSEntry(t *testing.T) {
	output := "zfs_default_ibs:\nzfs_default_ibs:                14\n"

	entry, value, err := parseIBSEntry(output)
	require.NoError(t, err)
	require.Equal(t, 14, value)
	require.Contains(t, entry, "zfs_default_ibs")
}

func TestParseIBSEntryWrongValue(t *testing.T) {
	output := "zfs_default_ibs:\nzfs_default_ibs:                17\n"

	_, value, err := parseIBSEntry(output)
	require.NoError(t, err)
	require.Equal(t, 17, value)
}

func TestParseIBSEntryGarbage(t *testing.T) {
	_, _, err := parseIBSEntry("mdb: failed to open kernel")
	require.Error(t, err)

	_, _, err = parseIBSEntry("line one\nno separator here")
	require.Error(t, err)
}
