// Package main provides the entry point for the escrituras CLI.
package main

import (
	"os"

	"github.com/noahread/escrituras/cmd/escrituras/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
