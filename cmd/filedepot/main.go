package main

import (
	"os"

	"github.com/filedepot/filedepot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
