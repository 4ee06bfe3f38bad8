package main

import (
	"os"

	"github.com/quietpage/folio/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
