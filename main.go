// ABOUTME: Entry point for the vibha CLI
// ABOUTME: Terminal storefront and scriptable commands for Vibha Sports court bookings

package main

import (
	"fmt"
	"os"

	"github.com/yaswanth756/vibha-sports-client/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
