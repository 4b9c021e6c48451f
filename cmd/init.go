package cmd

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/skriptgen/skriptgen/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a skriptgen.yml config file interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil {
			confirm := promptui.Prompt{
				Label:     fmt.Sprintf("%s exists, overwrite", cfgFile),
				IsConfirm: true,
			}
			if _, err := confirm.Run(); err != nil {
				fmt.Println("Aborted.")
				return nil
			}
		}

		cfg := config.DefaultConfig()

		providerPrompt := promptui.Select{
			Label: "Select LLM provider",
			Items: []string{"ollama", "openai", "static"},
		}
		_, providerStr, err := providerPrompt.Run()
		if err != nil {
			return fmt.Errorf("provider selection: %w", err)
		}
		cfg.Provider = config.ProviderType(providerStr)

		switch cfg.Provider {
		case config.ProviderOpenAI:
			cfg.Model = "gpt-4o-mini"
			cfg.EmbeddingProvider = config.ProviderOpenAI
			cfg.EmbeddingModel = "text-embedding-3-small"
		case config.ProviderStatic:
			cfg.Model = ""
			cfg.EmbeddingProvider = config.ProviderLocal
			cfg.EmbeddingModel = ""
		}

		docsPrompt := promptui.Prompt{
			Label:   "Documents directory",
			Default: cfg.DocumentsDir,
		}
		if dir, err := docsPrompt.Run(); err == nil && dir != "" {
			cfg.DocumentsDir = dir
		}

		outputPrompt := promptui.Prompt{
			Label:   "Output directory for generated scripts",
			Default: cfg.OutputDir,
		}
		if dir, err := outputPrompt.Run(); err == nil && dir != "" {
			cfg.OutputDir = dir
		}

		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.Save(cfgFile); err != nil {
			return err
		}

		fmt.Printf("Wrote %s\n", cfgFile)
		fmt.Println("Next: put your corpus into the documents directory and run `skriptgen reindex`.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
