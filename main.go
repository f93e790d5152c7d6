// Package main is the entry point for the Varmint CLI.
package main

import "github.com/varmint-dev/varmint/cmd"

func main() {
	cmd.Execute()
}
