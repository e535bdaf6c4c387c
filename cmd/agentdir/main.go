// agentdir is the command-line companion of the AI Agents Directory: it
// runs the server, searches and validates the dataset, edits the local
// favorites list and submits URLs to IndexNow.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		var exitErr exitError
		if errors.As(err, &exitErr) {
			if exitErr.message != "" {
				fmt.Fprintln(os.Stderr, exitErr.message)
			}
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// exitError carries a specific process exit code.
type exitError struct {
	code    int
	message string
}

func (e exitError) Error() string { return e.message }
