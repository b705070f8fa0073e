package main

import (
	"fmt"
	"os"

	"github.com/foundbox/foundbox/cmd"
)

func main() {
	rootCmd := cmd.RootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
