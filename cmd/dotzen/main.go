package main

import (
	"os"

	"github.com/vivaneiona/dotzen/cmd/dotzen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
