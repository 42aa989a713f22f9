package main

import (
	"fmt"
	"os"

	"github.com/temirov/branchlog/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the branchlog command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
