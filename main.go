package main

import (
	"os"

	"github.com/skriptgen/skriptgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
