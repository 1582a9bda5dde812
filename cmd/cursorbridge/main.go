package main

import (
	"os"

	"github.com/drewdunne/cursorbridge/internal/cli"
)

var version = "0.2.1"

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		os.Exit(1)
	}
}
