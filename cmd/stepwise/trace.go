package main

import (
	"github.com/aretw0/stepwise/internal/cli"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace <kind> <family> [args...]",
	Short: "Print the trace of one operation",
	Long: `Generates the trace of one operation on the session's structure and prints every step.
The structure is left unchanged unless --commit is given.

Examples:
  stepwise trace insert avl 7 --commit
  stepwise trace traverse graph dfs A --json
  stepwise trace sort sorting quick`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		commit, _ := cmd.Flags().GetBool("commit")
		jsonMode, _ := cmd.Flags().GetBool("json")

		logger, err := cli.CreateLogger(cfg.LogLevel, false)
		if err != nil {
			return err
		}
		return cli.Trace(cmd.Context(), cmd.OutOrStdout(), cli.TraceOptions{
			Config: cfg,
			Args:   args,
			Commit: commit,
			JSON:   jsonMode,
			Logger: logger,
		})
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().Bool("commit", false, "Apply the operation to the session after tracing it")
	traceCmd.Flags().Bool("json", false, "Print the trace as JSON")
}
