package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gulfofmexico/interpreter-go/pkg/driver"
)

const cliVersion = "gom 0.1.0-dev"

const manifestName = "project.yml"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		return runManifest()
	}
	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliVersion)
		return 0
	case "run":
		args = args[1:]
		if len(args) == 0 {
			return runManifest()
		}
		return runFile(args[0])
	default:
		return runFile(args[0])
	}
}

func runManifest() int {
	manifest, err := driver.LoadManifest(manifestName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "gom run requires a source file (%s not found)\n", manifestName)
		} else {
			fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		}
		return 1
	}
	code, err := driver.RunManifest(manifest, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return code
}

func runFile(path string) int {
	code, err := driver.RunFile(path, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return code
}

func printUsage() {
	fmt.Fprintln(os.Stdout, `usage: gom [command] [arguments]

Commands:
  run [file]    execute a source file, or the project entry when omitted
  version       print the version
  help          show this message

With no arguments gom runs the entry named by project.yml.`)
}
