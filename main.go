// The main package for the workshop-aggregator executable.
package main

import (
	"github.com/JakeFAU/workshop-aggregator/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
