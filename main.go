// Package main is the entry point for the solmut CLI.
package main

import "solmut.dev/pkg/solmut/cmd"

func main() {
	cmd.Execute()
}
