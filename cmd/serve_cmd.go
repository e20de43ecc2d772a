package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type serveCmd struct{}

func (s *serveCmd) registerFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Boot the application and serve HTTP until interrupted",
		Args:  cobra.NoArgs,
	}
}

func (s *serveCmd) run(c *cli, cmd *cobra.Command, _ []string) error {
	a, err := c.application()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Run(ctx)
}
