// Package main provides the entry point for the docscope CLI.
package main

import (
	"os"

	"github.com/hyperjump/docscope/cmd/docscope/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
