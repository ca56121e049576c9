package hashchain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForkCmd(t *testing.T) {
	out, err := execute(t, "fork", "--local", "5", "--remote", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Fork resolved")
	assert.Contains(t, out, `"winner":7`)
	assert.Contains(t, out, `"replica": "remote"`)

	// Local wins ties.
	out, err = execute(t, "fork", "--local", "3", "--remote", "3")
	require.NoError(t, err)
	assert.Contains(t, out, `"winner":3`)
	assert.Contains(t, out, `"replica": "local"`)
	assert.NotContains(t, out, `"replica": "remote"`)
}

func TestForkCmdInvalidLength(t *testing.T) {
	_, err := execute(t, "fork", "--local", "0", "--remote", "3")
	assert.ErrorContains(t, err, "chain lengths must be at least 1")
}
