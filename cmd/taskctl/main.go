// taskctl is a command-line front end for the taskboard API.
//
//	taskctl [--server URL] <command> [flags]
//
// login and register save the issued token under the user config directory
// so later commands are authenticated.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ErlanBelekov/taskboard/client"
)

const defaultServer = "http://localhost:8080"

type command struct {
	summary string
	run     func(ctx context.Context, env *cmdEnv, args []string) error
}

var commands = map[string]command{
	"register": {"Create an account and log in", runRegister},
	"login":    {"Log in and save the session token", runLogin},
	"logout":   {"Forget the saved session token", runLogout},
	"me":       {"Show the logged-in user", runMe},
	"list":     {"List tasks", runList},
	"add":      {"Create a task", runAdd},
	"done":     {"Mark a task as done", runDone},
	"rm":       {"Delete a task", runRemove},
}

// cmdEnv is what every command gets: an API client with the saved token
// loaded, the task store shared by all commands in this process, somewhere
// to print, and where the token lives on disk.
type cmdEnv struct {
	api       *client.Client
	store     *client.Store
	out       io.Writer
	tokenPath string
}

func newCmdEnv(server, tokenPath string, out io.Writer) *cmdEnv {
	api := client.New(server, nil)
	if token, err := os.ReadFile(tokenPath); err == nil {
		api.SetToken(strings.TrimSpace(string(token)))
	}
	return &cmdEnv{api: api, store: client.NewStore(api, nil), out: out, tokenPath: tokenPath}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var server, tokenPath string

	flagSet := pflag.NewFlagSet("taskctl", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&server, "server", envOr("TASKBOARD_URL", defaultServer), "API base URL")
	flagSet.StringVar(&tokenPath, "token-file", defaultTokenPath(), "where the session token is stored")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.SetOutput(out)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(out, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help || flagSet.NArg() == 0 {
		printHelp(out, flagSet)
		return nil
	}

	name := flagSet.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (see taskctl --help)", name)
	}

	return cmd.run(ctx, newCmdEnv(server, tokenPath, out), flagSet.Args()[1:])
}

func printHelp(out io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintln(out, "Usage: taskctl [global flags] <command> [flags]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-10s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Global flags:")
	fmt.Fprint(out, flagSet.FlagUsages())
}

func (e *cmdEnv) saveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(e.tokenPath), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(e.tokenPath, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "taskctl", "token")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
