// Codesmith turns a natural-language software request into working Python
// code, documentation, tests, and deployment files by running a fixed
// sequence of AI agents.
//
// Usage:
//
//	# Generate a program from a request
//	codesmith run "Create a CLI todo list manager"
//
//	# Run several requests concurrently from a file
//	codesmith batch requests.txt
//
//	# Write a starter config file
//	codesmith init
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
