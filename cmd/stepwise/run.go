package main

import (
	"github.com/aretw0/stepwise/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive player",
	Long: `Starts an interactive session. Type an operation such as "insert bst 5" to generate
its trace, step through it with next/prev/play, then commit or abort it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		headless, _ := cmd.Flags().GetBool("headless")
		jsonMode, _ := cmd.Flags().GetBool("json")
		debug, _ := cmd.Flags().GetBool("debug")
		fresh, _ := cmd.Flags().GetBool("fresh")
		if speed, _ := cmd.Flags().GetDuration("speed"); cmd.Flags().Changed("speed") {
			cfg.Speed = speed
		}

		return cli.Execute(cmd.Context(), cli.RunOptions{
			Config:   cfg,
			Headless: headless,
			JSON:     jsonMode,
			Debug:    debug,
			Fresh:    fresh,
			Input:    cmd.InOrStdin(),
			Output:   cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Run in headless mode (no prompts, strict IO)")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().Bool("debug", false, "Log engine events to stderr")
	runCmd.Flags().Bool("fresh", false, "Clear the session's structures before starting")
	runCmd.Flags().Duration("speed", 0, "Autoplay delay between steps (e.g. 250ms)")

	rootCmd.Flags().AddFlagSet(runCmd.Flags())
	rootCmd.RunE = runCmd.RunE
}
