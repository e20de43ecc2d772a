// Package cmd is the go-container command line: serve the application, list
// its bindings, or resolve a single identifier.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/km-arc/go-container/framework/app"
)

// Bootstrap builds the application the commands operate on.
type Bootstrap func(envFiles []string) (*app.Application, error)

// CLI is the command line interface that includes command handling.
type CLI interface {
	Exec() error
	Root() *cobra.Command
}

type cli struct {
	rootCmd *cobra.Command

	envFiles  []string
	bootstrap Bootstrap
	app       *app.Application
}

func (c *cli) Exec() error {
	return c.rootCmd.Execute()
}

func (c *cli) Root() *cobra.Command { return c.rootCmd }

// NewCLI creates the root command. bootstrap runs lazily, once, the first
// time a command needs the application.
func NewCLI(bootstrap Bootstrap) CLI {
	c := &cli{bootstrap: bootstrap}

	c.rootCmd = &cobra.Command{
		Use:          "go-container",
		Short:        "go-container runs and inspects a dependency injection container",
		SilenceUsage: true,
	}
	c.rootCmd.PersistentFlags().StringSliceVar(&c.envFiles, "env", nil, ".env files to load (default .env)")

	c.addCmd(&serveCmd{})
	c.addCmd(&bindingsCmd{})
	c.addCmd(&resolveCmd{})

	return c
}

// application boots the application on first use.
func (c *cli) application() (*app.Application, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := c.bootstrap(c.envFiles)
	if err != nil {
		return nil, err
	}
	if err := a.Boot(); err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func (c *cli) addCmd(cmd command) {
	cobraCmd := cmd.registerFlags()
	cobraCmd.RunE = func(innerCmd *cobra.Command, args []string) error {
		return cmd.run(c, innerCmd, args)
	}
	c.rootCmd.AddCommand(cobraCmd)
}

type command interface {
	registerFlags() *cobra.Command
	run(c *cli, cmd *cobra.Command, args []string) error
}
