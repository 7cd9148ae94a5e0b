// Command amlscreen screens people against an AML lookup API from the
// terminal, from scripts, or through a small browser form.
package main

import (
	"os"

	"github.com/rshade/amlscreen/internal/cli"
	"github.com/rshade/amlscreen/pkg/version"
)

// run executes the root command. Cobra has already printed any error.
func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.Execute()
}

// extractExitCode maps a run error to the process exit status.
func extractExitCode(err error) int {
	return cli.ExitCode(err)
}

func main() {
	if err := run(); err != nil {
		os.Exit(extractExitCode(err))
	}
}
