// The sbridgectl command provides a command-line interface for the
// showbridge relay: display configuration, live watching, and feeding
// playback data.
package main

import "github.com/showbridge/showbridge/internal/sbridgectl/cmd"

func main() {
	cmd.Execute()
}
