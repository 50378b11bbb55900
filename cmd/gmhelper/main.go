// Package main is the entry point for the gmhelper CLI.
package main

import (
	"os"

	"github.com/gmhelper/gmhelper/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
