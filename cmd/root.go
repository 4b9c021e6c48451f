package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "skriptgen",
	Short: "Conversation-driven generator for information security trainings",
	Long: `Skriptgen interviews you about your organization and builds a tailored
German e-learning script on information security, section by section.
Generated content is grounded in your own document corpus via retrieval
and validated before it is accepted.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "skriptgen.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
