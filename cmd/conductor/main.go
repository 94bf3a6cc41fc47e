// Command conductor drives a coding-agent CLI through a recipe: a
// finite state machine of natural-language steps whose transitions are
// decided entirely by the orchestrator, never by the agent itself.
package main

import (
	"os"

	"github.com/agentrun/conductor/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
