package main

import (
	"fmt"
	"io"
	"os"
)

const (
	appName    = "APK Recon"
	appVersion = "1.0.0"
	appDesc    = "Recovers GraphQL operations and the OAuth client id from a decompiled Android app"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return 1
	}
	return 0
}

func printBanner(w io.Writer) {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                      APK RECON v1.0.0                     ║
║     GraphQL operations and OAuth client id extraction     ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Fprintln(w, banner)
}
