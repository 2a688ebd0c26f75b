// Command agreement is the agreement assembly CLI.
package main

import (
	"os"

	"agreement-engine/cmd/cli/cmd"
	"agreement-engine/internal/logging"
)

func main() {
	defer logging.Sync()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
