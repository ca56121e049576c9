package hashchain_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoCmd(t *testing.T) {
	out, err := execute(t, "demo")
	require.NoError(t, err)
	assert.Contains(t, out, `"name":"Seth"`)
	assert.Contains(t, out, "Rejected invalid block")
	assert.Contains(t, out, `"length":3`)
	assert.Contains(t, out, `"prev_hash": "genesis"`)
	assert.NotContains(t, out, `"name": "Lucifer"`)
}

func TestDemoCmdTSV(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "demo", "--format", "tsv", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Chain exported")

	data, err := os.ReadFile(filepath.Join(dir, "blocks.tsv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "0\t"))
	assert.Contains(t, lines[0], "\tgenesis\t2836\t")
	assert.Contains(t, lines[2], `"name":"Enos"`)
}
