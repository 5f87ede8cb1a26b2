package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"usergraph/internal/graphstate"
	"usergraph/internal/validation"

	"github.com/spf13/cobra"
)

const shellHelp = `Commands:
  refresh                          refetch the full graph
  list                             show users in the local view
  graph                            show users and edges in the local view
  select <id> | clear              set or clear the selected user
  create <username> <age> <h1,h2>  create a user
  update <id> key=value ...        keys: username, age, hobbies (comma separated)
  delete <id>                      delete a user
  link <id> <target>               create a friendship
  unlink <id> <target>             remove a friendship
  hobby <id> <hobby>               add a hobby
  undo | redo                      step through local history
  status                           selection, history cursor and last error
  help | quit
`

func shellCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session over a local copy of the graph with undo/redo",
		Long: `Interactive session over a local copy of the graph.

Every mutation snapshots the local view first, so undo and redo step back
and forth through what you saw. They do not reverse changes on the server;
the next refresh shows the server's state again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := graphstate.NewStore(o.client())
			sh := &shell{store: store, out: cmd.OutOrStdout(), p: o.printer(cmd.OutOrStdout()), o: o}
			return sh.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

type shell struct {
	store *graphstate.Store
	out   io.Writer
	p     *printer
	o     *options
}

var errQuit = errors.New("quit")

func (sh *shell) run(ctx context.Context, in io.Reader) error {
	if err := sh.refresh(ctx); err != nil {
		fmt.Fprintf(sh.out, "error: %v\n", err)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, "graph> ")
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}
		err := sh.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
			sh.store.ClearError()
		}
	}
}

func (sh *shell) refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, sh.o.timeout)
	defer cancel()
	return sh.store.FetchGraph(ctx)
}

// exec runs one shell line against the store.
func (sh *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]

	ctx, cancel := context.WithTimeout(ctx, sh.o.timeout)
	defer cancel()

	switch name {
	case "help", "?":
		_, err := fmt.Fprint(sh.out, shellHelp)
		return err
	case "quit", "exit":
		return errQuit
	case "refresh":
		return sh.store.FetchGraph(ctx)
	case "list":
		return sh.p.users(sh.store.State().Users)
	case "graph":
		st := sh.store.State()
		return sh.p.graph(st.Users, st.Edges)
	case "select":
		if err := wantArgs(args, 1, "select <id>"); err != nil {
			return err
		}
		u, ok := sh.store.FindUser(args[0])
		if !ok {
			return errors.New("User not found")
		}
		sh.store.SetSelectedUser(u)
		return sh.p.user(u)
	case "clear":
		sh.store.ClearSelection()
		return nil
	case "create":
		if err := wantArgs(args, 3, "create <username> <age> <h1,h2>"); err != nil {
			return err
		}
		age, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.New("age must be a number")
		}
		req := validation.CreateUserRequest{Username: args[0], Age: age, Hobbies: splitList(args[2])}
		if err := validation.Struct(req); err != nil {
			return err
		}
		u, err := sh.store.CreateUser(ctx, req)
		if err != nil {
			return err
		}
		return sh.p.user(u)
	case "update":
		if len(args) < 2 {
			return errors.New("usage: update <id> key=value ...")
		}
		req, err := parseUpdate(args[1:])
		if err != nil {
			return err
		}
		u, err := sh.store.UpdateUser(ctx, args[0], req)
		if err != nil {
			return err
		}
		return sh.p.user(u)
	case "delete":
		if err := wantArgs(args, 1, "delete <id>"); err != nil {
			return err
		}
		if err := sh.store.DeleteUser(ctx, args[0]); err != nil {
			return err
		}
		return sh.p.message("User deleted")
	case "link":
		if err := wantArgs(args, 2, "link <id> <target>"); err != nil {
			return err
		}
		if err := sh.store.LinkUsers(ctx, args[0], args[1]); err != nil {
			return err
		}
		return sh.p.message("Users linked successfully")
	case "unlink":
		if err := wantArgs(args, 2, "unlink <id> <target>"); err != nil {
			return err
		}
		if err := sh.store.UnlinkUsers(ctx, args[0], args[1]); err != nil {
			return err
		}
		return sh.p.message("Users unlinked successfully")
	case "hobby":
		if len(args) < 2 {
			return errors.New("usage: hobby <id> <hobby>")
		}
		u, err := sh.store.AddHobby(ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		return sh.p.user(u)
	case "undo":
		if !sh.store.Undo() {
			return sh.p.message("Nothing to undo")
		}
		return sh.p.message("Undone")
	case "redo":
		if !sh.store.Redo() {
			return sh.p.message("Nothing to redo")
		}
		return sh.p.message("Redone")
	case "status":
		return sh.status()
	}
	return fmt.Errorf("unknown command %q (try help)", name)
}

func (sh *shell) status() error {
	st := sh.store.State()
	selected := "none"
	if st.Selected != nil {
		selected = st.Selected.Username
	}
	_, err := fmt.Fprintf(sh.out, "users=%d edges=%d selected=%s history=%d/%d undo=%t redo=%t error=%q\n",
		len(st.Users), len(st.Edges), selected, st.HistoryIndex+1, st.HistoryLen,
		sh.store.CanUndo(), sh.store.CanRedo(), st.Error)
	return err
}

func wantArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseUpdate(pairs []string) (validation.UpdateUserRequest, error) {
	var req validation.UpdateUserRequest
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return req, fmt.Errorf("expected key=value, got %q", pair)
		}
		switch key {
		case "username":
			v := value
			req.Username = &v
		case "age":
			age, err := strconv.Atoi(value)
			if err != nil {
				return req, errors.New("age must be a number")
			}
			req.Age = &age
		case "hobbies":
			// An empty list must reach the validator as [] rather than nil.
			h := splitList(value)
			if h == nil {
				h = []string{}
			}
			req.Hobbies = &h
		default:
			return req, fmt.Errorf("unknown field %q", key)
		}
	}
	return req, validation.Struct(req)
}
