package hashchain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liftedinit/hashchain/cmd/hashchain"
)

func TestRootCmd(t *testing.T) {
	// Show help
	output, err := executeCommand(t, hashchain.RootCmd)
	assert.NoError(t, err)
	assert.Contains(t, output, "hashchain mines proof-of-work blocks")

	// Test invalid logLevel
	_, err = executeCommand(t, hashchain.RootCmd, "version", "--logLevel", "invalid")
	assert.Error(t, err)
	assert.ErrorContains(t, err, "invalid log level: invalid. Valid log levels are: debug|error|info|warn")

	// Invalid output format
	_, err = executeCommand(t, hashchain.RootCmd, "demo", "--logLevel", "info", "--format", "xml")
	assert.ErrorContains(t, err, "invalid output format: xml")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	assert.NoError(t, err)
	assert.Contains(t, out, "hashchain dev")
}
