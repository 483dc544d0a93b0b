package main

import (
	"fmt"
	"os"

	"ordering/internal/client/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tracker:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
