package main

import (
	"github.com/spf13/cobra"
)

// NewHealthCmd creates the health command.
func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health <url>",
		Short: "Quickly classify the structured data health of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newApp(cmd, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer rt.close()

			report, err := rt.scanner.HealthCheck(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return rt.writer.WriteHealth(report)
		},
	}
}
