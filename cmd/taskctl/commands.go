package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/ErlanBelekov/taskboard/client"
)

func credentialFlags(name string) (*pflag.FlagSet, *string, *string) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("TASKBOARD_PASSWORD"), "account password (or TASKBOARD_PASSWORD)")
	return fs, email, password
}

func runRegister(ctx context.Context, env *cmdEnv, args []string) error {
	return runCredentials(ctx, env, "register", args, env.api.Register)
}

func runLogin(ctx context.Context, env *cmdEnv, args []string) error {
	return runCredentials(ctx, env, "login", args, env.api.Login)
}

func runCredentials(ctx context.Context, env *cmdEnv, name string, args []string,
	call func(ctx context.Context, email, password string) (*client.Session, error),
) error {
	fs, email, password := credentialFlags(name)
	fs.SetOutput(env.out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("--email and --password are required")
	}

	sess, err := call(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := env.saveToken(sess.Token); err != nil {
		return err
	}
	fmt.Fprintf(env.out, "Logged in as %s\n", sess.User.Email)
	return nil
}

func runLogout(ctx context.Context, env *cmdEnv, _ []string) error {
	if err := env.api.Logout(ctx); err != nil {
		return err
	}
	if err := os.Remove(env.tokenPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	fmt.Fprintln(env.out, "Logged out")
	return nil
}

func runMe(ctx context.Context, env *cmdEnv, _ []string) error {
	u, err := env.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "%s  %s\n", u.ID, u.Email)
	return nil
}

func runList(ctx context.Context, env *cmdEnv, args []string) error {
	var p client.ListParams
	fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
	fs.SetOutput(env.out)
	fs.IntVar(&p.Page, "page", 1, "page number")
	fs.IntVar(&p.Limit, "limit", 10, "tasks per page (max 100)")
	fs.StringVarP(&p.Search, "search", "s", "", "case-insensitive text to look for in title or description")
	fs.StringVar(&p.Status, "status", "all", "pending, done or all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	page, err := env.store.List(ctx, p)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(env.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tUPDATED")
	for _, t := range page.Tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Title, t.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(env.out, "page %d/%d, %d tasks\n", page.Pagination.Page, page.Pagination.Pages, page.Pagination.Total)
	return nil
}

func runAdd(ctx context.Context, env *cmdEnv, args []string) error {
	var in client.TaskInput
	fs := pflag.NewFlagSet("add", pflag.ContinueOnError)
	fs.SetOutput(env.out)
	fs.StringVarP(&in.Description, "description", "d", "", "task description")
	fs.StringVar(&in.Status, "status", "", "initial status (default pending)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in.Title = strings.Join(fs.Args(), " ")

	t, err := env.store.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "Created %s\n", t.ID)
	return nil
}

func runDone(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: taskctl done <task-id>")
	}
	done := "done"
	t, err := env.store.Update(ctx, args[0], client.TaskPatch{Status: &done})
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "%s is %s\n", t.ID, t.Status)
	return nil
}

func runRemove(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: taskctl rm <task-id>")
	}
	if err := env.store.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(env.out, "Deleted %s\n", args[0])
	return nil
}
