package cli

import (
	"context"
	"fmt"

	"resumetric/internal/ai"
	"resumetric/internal/common"
	"resumetric/internal/generate"
	"resumetric/internal/types"

	"github.com/spf13/cobra"
)

var bulletsCmd = &cobra.Command{
	Use:   "bullets [text-file]",
	Short: "Generate improved resume bullet points from existing text",
	Long: `Generate achievement-focused bullet points from existing resume text.
The section type controls bullet count, length, and style. Missing keywords
from a previous score run can be woven into the generated bullets.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if bulletsConfig.OutputFormat == "" {
			bulletsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(bulletsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runBullets,
}

var (
	bulletsConfig   common.CommandConfig
	bulletsSection  string
	bulletsKeywords []string
)

func init() {
	bulletsCmd.Flags().StringVarP(&bulletsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	bulletsCmd.Flags().StringVar(&bulletsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	bulletsCmd.Flags().StringVar(&bulletsSection, "section", "experience", "Section type: experience, summary, projects, or skills")
	bulletsCmd.Flags().StringSliceVar(&bulletsKeywords, "keywords", nil, "Missing keywords to weave into the bullets (comma-separated)")

	_ = bulletsCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
	_ = bulletsCmd.RegisterFlagCompletionFunc("section", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return generate.SectionTypes(), cobra.ShellCompDirectiveNoFileComp
	})
}

func runBullets(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	bulletsAIConfig := cfg.GetBulletsConfig()
	client, err := ai.NewClient(&bulletsAIConfig, "bullets", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI client: %w", err)
	}
	defer func() { _ = client.Close() }()

	generator := generate.NewGenerator(client, &bulletsAIConfig, logger)

	createInput := func(contents []string) (string, error) {
		if len(contents) != 1 {
			return "", fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return contents[0], nil
	}

	logDetails := func(input string, cfg common.CommandConfig) {
		logger.Info("Starting bullet generation",
			"text_chars", len(input),
			"section_type", bulletsSection,
			"keywords", len(bulletsKeywords),
			"output_format", cfg.OutputFormat)
	}

	bulletsOperation := func(ctx context.Context, input string) (types.BulletsOutput, error) {
		return generator.Bullets(ctx, input, bulletsKeywords, bulletsSection), nil
	}

	err = common.RunCommand(
		cmd.Context(),
		logger,
		bulletsConfig,
		args,
		createInput,
		bulletsOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate bullets: %w", err)
	}
	logger.Info("Bullet generation completed successfully")
	return nil
}
