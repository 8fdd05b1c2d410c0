package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// healthcheckCmd is a trivial liveness probe for container health checks. It
// succeeds whenever the binary can start, without touching the network.
var healthcheckCmd = &cobra.Command{
	Use:    "healthcheck",
	Short:  "Exit 0 if the binary is operational",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}
