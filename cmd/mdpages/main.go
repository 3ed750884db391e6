// Command mdpages renders markup files to HTML pages, with optional
// standalone documents, serialized node graphs and PDF export.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// maxprocs only fails on an invalid GOMAXPROCS value; the runtime
	// default applies then.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches a command and maps its error to an exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "render":
		err = runRender(ctx, rest, env)
	case "dump":
		err = runDump(rest, env)
	case "load":
		err = runLoad(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdpages %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}
