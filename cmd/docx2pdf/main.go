package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	setMaxProcs(slices.Contains(os.Args[1:], "-v") || slices.Contains(os.Args[1:], "--verbose"), os.Stderr)
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// setMaxProcs matches GOMAXPROCS to the container CPU quota, logging the
// decision only when verbose.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(verbose bool, w io.Writer) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}

// runMain dispatches args[1] to a command and returns the exit code.
// An argument that is not a command name starts a conversion.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		fmt.Fprintln(env.Stderr)
		return reportError(env, ErrNoInput, hintContext{})
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "help", "-h", "--help":
		topic := ""
		if len(rest) > 0 {
			topic = rest[0]
		}
		printHelp(env.Stdout, topic)
		return ExitSuccess
	case "version", "--version":
		printVersion(env.Stdout)
		return ExitSuccess
	case "convert":
		return runConvertCmd(ctx, rest, env)
	case "sample":
		return runSampleCmd(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "config":
		return runConfigCmd(rest, env)
	}
	return runConvertCmd(ctx, args[1:], env)
}

// printVersion prints the program name and version.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "docx2pdf %s\n", Version)
}

// runConfigCmd prints the effective configuration as YAML.
func runConfigCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	name := fs.StringP("config", "c", "", "config file name or path")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printConfigUsage(env.Stdout)
			return ExitSuccess
		}
		return reportError(env, fmt.Errorf("%w: %v", ErrUsage, err), hintContext{})
	}

	cfg, err := loadConfig(*name)
	if err != nil {
		return reportError(env, err, hintContext{config: *name})
	}

	out, err := cfg.Marshal()
	if err != nil {
		return reportError(env, err, hintContext{})
	}
	_, _ = env.Stdout.Write(out)
	return ExitSuccess
}
