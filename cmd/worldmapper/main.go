// Command worldmapper assigns spherical coordinates to the locations of
// an LLM-built fantasy world.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
