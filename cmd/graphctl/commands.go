package main

import (
	"errors"

	"usergraph/internal/validation"

	"github.com/spf13/cobra"
)

func usersCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List all users, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := o.context(cmd)
			defer cancel()
			users, err := o.client().ListUsers(ctx)
			if err != nil {
				return err
			}
			return o.printer(cmd.OutOrStdout()).users(users)
		},
	}
}

func getCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := o.context(cmd)
			defer cancel()
			user, err := o.client().GetUser(ctx, args[0])
			if err != nil {
				return err
			}
			return o.printer(cmd.OutOrStdout()).user(user)
		},
	}
}

func createCmd(o *options) *cobra.Command {
	var (
		age     int
		hobbies []string
	)
	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := validation.CreateUserRequest{Username: args[0], Age: age, Hobbies: hobbies}
			if err := validation.Struct(req); err != nil {
				return err
			}
			ctx, cancel := o.context(cmd)
			defer cancel()
			user, err := o.client().CreateUser(ctx, req)
			if err != nil {
				return err
			}
			return o.printer(cmd.OutOrStdout()).user(user)
		},
	}
	cmd.Flags().IntVar(&age, "age", 0, "Age (1-150)")
	cmd.Flags().StringArrayVar(&hobbies, "hobby", nil, "Hobby; repeat for several")
	_ = cmd.MarkFlagRequired("age")
	_ = cmd.MarkFlagRequired("hobby")
	return cmd
}

func updateCmd(o *options) *cobra.Command {
	var (
		username string
		age      int
		hobbies  []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a user's username, age or hobbies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req validation.UpdateUserRequest
			if cmd.Flags().Changed("username") {
				req.Username = &username
			}
			if cmd.Flags().Changed("age") {
				req.Age = &age
			}
			if cmd.Flags().Changed("hobby") {
				req.Hobbies = &hobbies
			}
			if req.Username == nil && req.Age == nil && req.Hobbies == nil {
				return errors.New("nothing to update: pass --username, --age or --hobby")
			}
			if err := validation.Struct(req); err != nil {
				return err
			}

			ctx, cancel := o.context(cmd)
			defer cancel()
			user, err := o.client().UpdateUser(ctx, args[0], req)
			if err != nil {
				return err
			}
			return o.printer(cmd.OutOrStdout()).user(user)
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "New username")
	cmd.Flags().IntVar(&age, "age", 0, "New age")
	cmd.Flags().StringArrayVar(&hobbies, "hobby", nil, "Replacement hobby list; repeat for several")
	return cmd
}

func deleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user with no friendships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := o.context(cmd)
			defer cancel()
			if err := o.client().DeleteUser(ctx, args[0]); err != nil {
				return err
			}
			return o.printer(cmd.OutOrStdout()).message("User deleted")
		},
	}
}

func linkCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "link <id> <target-id>",
		Short: "Make two users friends",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := o.context(cmd)
			defer cancel()
			if err := o.client().LinkUsers(ctx, args[0], args[1]); err != nil {
				return err
			}
			return o.printer(cmd.OutOrStdout()).message("Users linked successfully")
		},
	}
}

func unlinkCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <id> <target-id>",
		Short: "Remove a friendship",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := o.context(cmd)
			defer cancel()
			if err := o.client().UnlinkUsers(ctx, args[0], args[1]); err != nil {
				return err
			}
			return o.printer(cmd.OutOrStdout()).message("Users unlinked successfully")
		},
	}
}

func hobbyCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "hobby <id> <hobby>",
		Short: "Add a hobby to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := o.context(cmd)
			defer cancel()
			user, err := o.client().AddHobby(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return o.printer(cmd.OutOrStdout()).user(user)
		},
	}
}

func graphCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print every user and friendship edge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := o.context(cmd)
			defer cancel()
			graph, err := o.client().GetGraph(ctx)
			if err != nil {
				return err
			}
			return o.printer(cmd.OutOrStdout()).graph(graph.Users, graph.Edges)
		},
	}
}
