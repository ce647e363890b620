// Command ghfinder looks up GitHub users and their most starred repositories.
package main

import (
	"os"

	"github.com/thesavant42/ghfinder/internal/cli"
	"github.com/thesavant42/ghfinder/internal/ui"
)

func main() {
	if err := cli.Execute(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}
