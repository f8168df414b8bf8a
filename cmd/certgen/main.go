package main

import (
	"os"

	"github.com/Lllllllleong/certificateflow/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
