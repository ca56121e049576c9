package hashchain_test

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"

	"github.com/liftedinit/hashchain/cmd/hashchain"
	"github.com/liftedinit/hashchain/internal/testutil"
)

var defaultFlags = []string{"--logLevel", "info", "--format", "json", "--out", "-"}

func executeCommand(t *testing.T, root *cobra.Command, args ...string) (output string, err error) {
	t.Helper()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	t.Cleanup(func() {
		root.SetOut(nil)
		root.SetErr(nil)
	})
	root.SetArgs(args)

	_, err = root.ExecuteC()
	return buf.String(), err
}

// execute runs a subcommand with default flags, capturing stdout.
func execute(t *testing.T, subcommand string, args ...string) (string, error) {
	t.Helper()
	return testutil.Execute(t, hashchain.RootCmd, testutil.Args(subcommand, defaultFlags, args...)...)
}
