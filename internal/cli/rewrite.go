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

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [text-file]",
	Short: "Rewrite resume text in a target tone",
	Long: `Rewrite a piece of resume text in a target tone while preserving its
facts. Missing keywords from a previous score run can optionally be woven
into the rewritten text where they fit naturally.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if rewriteConfig.OutputFormat == "" {
			rewriteConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(rewriteConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runRewrite,
}

var (
	rewriteConfig   common.CommandConfig
	rewriteTone     string
	rewriteKeywords []string
)

func init() {
	rewriteCmd.Flags().StringVarP(&rewriteConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	rewriteCmd.Flags().StringVar(&rewriteConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	rewriteCmd.Flags().StringVar(&rewriteTone, "tone", "professional", "Target tone for the rewrite")
	rewriteCmd.Flags().StringSliceVar(&rewriteKeywords, "keywords", nil, "Missing keywords to weave in where natural (comma-separated)")

	_ = rewriteCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runRewrite(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	rewriteAIConfig := cfg.GetRewriteConfig()
	client, err := ai.NewClient(&rewriteAIConfig, "rewrite", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI client: %w", err)
	}
	defer func() { _ = client.Close() }()

	rewriter := generate.NewRewriter(client, &rewriteAIConfig, logger)

	createInput := func(contents []string) (string, error) {
		if len(contents) != 1 {
			return "", fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return contents[0], nil
	}

	logDetails := func(input string, cfg common.CommandConfig) {
		logger.Info("Starting text rewrite",
			"text_chars", len(input),
			"tone", rewriteTone,
			"keywords", len(rewriteKeywords),
			"output_format", cfg.OutputFormat)
	}

	rewriteOperation := func(ctx context.Context, input string) (types.RewriteOutput, error) {
		return rewriter.Rewrite(ctx, input, rewriteTone, rewriteKeywords), nil
	}

	err = common.RunCommand(
		cmd.Context(),
		logger,
		rewriteConfig,
		args,
		createInput,
		rewriteOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to rewrite text: %w", err)
	}
	logger.Info("Text rewrite completed successfully")
	return nil
}
