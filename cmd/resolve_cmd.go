package cmd

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/km-arc/go-container/framework/container"
)

type resolveCmd struct {
	params []string
}

func (r *resolveCmd) registerFlags() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Resolve an identifier and dump the value",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().StringArrayVarP(&r.params, "param", "p", nil, "explicit parameter as name=value (string values)")
	return cmd
}

func (r *resolveCmd) run(c *cli, cmd *cobra.Command, args []string) error {
	params, err := parseParams(r.params)
	if err != nil {
		return err
	}
	a, err := c.application()
	if err != nil {
		return err
	}

	v, err := a.Make(args[0], params)
	if err != nil {
		return err
	}

	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, MaxDepth: 4}
	_, err = fmt.Fprint(cmd.OutOrStdout(), cfg.Sdump(v))
	return err
}

func parseParams(raw []string) (container.Params, error) {
	params := container.Params{}
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, errors.Errorf("parameter %q is not of the form name=value", kv)
		}
		params[name] = value
	}
	return params, nil
}
