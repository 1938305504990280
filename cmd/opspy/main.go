package main

import (
	"os"

	"github.com/msto63/opspy/cmd/opspy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
