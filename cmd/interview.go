package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/skriptgen/skriptgen/internal/dialog"
)

var interviewFormat string

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run the interview in the terminal and save the finished script",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider := createProvider(cfg)
		embedder := createEmbedder(cfg)
		store, err := openStore(cfg, embedder)
		if err != nil {
			return err
		}

		controller := controllerFactory(cfg, provider, store)()
		ctx := cmd.Context()

		question := controller.GetNextQuestion(ctx)
		for !controller.Done() {
			fmt.Printf("\n%s\n", question)

			prompt := promptui.Prompt{
				Label: "Antwort",
				Validate: func(input string) error {
					if strings.TrimSpace(input) == "" {
						return fmt.Errorf("bitte geben Sie eine Antwort ein")
					}
					return nil
				},
			}
			answer, err := prompt.Run()
			if err != nil {
				return fmt.Errorf("reading answer: %w", err)
			}

			question = controller.ProcessUserResponse(ctx, answer)
		}
		fmt.Printf("\n%s\n\n", question)

		path, err := controller.SaveScript(cfg.OutputDir, interviewFormat)
		if err != nil {
			return err
		}
		fmt.Printf("Skript gespeichert: %s\n", path)

		summary, err := controller.GetScriptSummary()
		if err != nil {
			return err
		}
		fmt.Printf("\n%s", summary)
		return nil
	},
}

func init() {
	interviewCmd.Flags().StringVar(&interviewFormat, "format", dialog.FormatText, "output format: txt, json or html")
	rootCmd.AddCommand(interviewCmd)
}
