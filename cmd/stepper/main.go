// Command stepper plays and renders step-sequenced songs.
//
// Usage:
//
//	stepper [flags] <command> [args]
//
// Commands:
//
//	play     - play songs through the default audio device
//	render   - render songs to .wav or .raw files
//	info     - print a summary of songs
package main

import (
	"fmt"
	"os"

	"github.com/vsariola/stepper/cmd/stepper/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
