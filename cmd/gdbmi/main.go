// Command gdbmi is a GDB/MI front end.
package main

import (
	"os"

	"github.com/tessro/gdbmi/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
