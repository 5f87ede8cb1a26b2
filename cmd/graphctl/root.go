package main

import (
	"context"
	"io"
	"time"

	"usergraph/internal/apiclient"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultAPIURL = "http://localhost:5000/api"

// options are shared by every subcommand.
type options struct {
	v       *viper.Viper
	timeout time.Duration
	json    bool
	doer    apiclient.Doer
}

func (o *options) client() *apiclient.Client {
	opts := []apiclient.Option{apiclient.WithTimeout(o.timeout)}
	if o.doer != nil {
		opts = append(opts, apiclient.WithDoer(o.doer))
	}
	return apiclient.New(o.v.GetString("API_BASE_URL"), opts...)
}

func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func (o *options) printer(w io.Writer) *printer {
	return &printer{w: w, json: o.json}
}

func rootCmd() *cobra.Command {
	return newRootCmd(&options{})
}

func newRootCmd(o *options) *cobra.Command {
	o.v = viper.New()
	o.v.SetDefault("API_BASE_URL", defaultAPIURL)
	o.v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "graphctl",
		Short: "Manage users and friendships through the user graph API",
		Long: `graphctl talks to a running user graph API.

Examples:
  graphctl users
  graphctl create alice --age 30 --hobby reading --hobby gaming
  graphctl link <user-id> <target-id>
  graphctl shell                 # interactive session with undo/redo

The API address comes from --api or the API_BASE_URL environment variable.
`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("api", defaultAPIURL, "Base URL of the API")
	flags.DurationVar(&o.timeout, "timeout", 10*time.Second, "Per-request timeout")
	flags.BoolVar(&o.json, "json", false, "Print results as JSON")
	_ = o.v.BindPFlag("API_BASE_URL", flags.Lookup("api"))

	cmd.AddCommand(
		usersCmd(o),
		getCmd(o),
		createCmd(o),
		updateCmd(o),
		deleteCmd(o),
		linkCmd(o),
		unlinkCmd(o),
		hobbyCmd(o),
		graphCmd(o),
		shellCmd(o),
	)
	return cmd
}
