package main

import (
	"fmt"
	"os"
)

const (
	AppName    = "kernel-convolver"
	AppVersion = "1.0.0"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
