package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

var (
	// Version and Commit are set via -ldflags.
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
