// plantcare - keep your houseplants watered from the terminal.
package main

import (
	"os"

	"github.com/manav03panchal/plantcare/cmd"
	"github.com/manav03panchal/plantcare/internal/runtime"
)

func main() {
	if err := cmd.Execute(); err != nil {
		cmd.Fail(err)
		os.Exit(runtime.ExitCode(err))
	}
}
