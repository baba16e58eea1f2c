package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/spf13/cobra"
	"io"
	"text2phenotype.com/compound/logger"
	"text2phenotype.com/compound/pipeline"
	"text2phenotype.com/compound/report"
	"text2phenotype.com/compound/s3client"
	"text2phenotype.com/compound/source"
	"text2phenotype.com/compound/types"
	"text2phenotype.com/compound/utils"
)

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("file", "", "read the word list from a local file")
	cmd.Flags().String("url", "", "download the word list over HTTP")
	cmd.Flags().String("s3-key", "", "download the word list from the configured S3 bucket")
	cmd.Flags().Int("workers", 0, "number of classification workers (0 keeps the profile value)")
	cmd.Flags().Int("top", -1, "number of entries in the JSON top list (-1 keeps the profile value)")
	cmd.Flags().Bool("json", false, "print the JSON report instead of the text one")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "analyze one word list and print the report",
	Args:  cobra.NoArgs,
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	env, err := readEnv()
	if err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	cfg, err := loadConfiguration(cmd, env)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, &cfg)
	if err = cfg.Validate(); err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	return runAnalysis(cmd.Context(), cfg, cmd.OutOrStdout(), asJSON)
}

// applyRunFlags lets the source and tuning flags override the profile.
func applyRunFlags(cmd *cobra.Command, cfg *types.Configuration) {
	flags := cmd.Flags()
	if path, _ := flags.GetString("file"); path != "" {
		cfg.Source = types.SourceConfig{Kind: types.SourceFile, Path: path}
	}
	if url, _ := flags.GetString("url"); url != "" {
		cfg.Source = types.SourceConfig{Kind: types.SourceURL, URL: url}
	}
	if key, _ := flags.GetString("s3-key"); key != "" {
		cfg.Source = types.SourceConfig{Kind: types.SourceS3, Key: key}
	}
	if workers, _ := flags.GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}
	if top, _ := flags.GetInt("top"); top >= 0 {
		cfg.Top = top
	}
}

func runAnalysis(ctx context.Context, cfg types.Configuration, out io.Writer, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	runLogger := logger.NewLogger("Run")

	var downloader source.Downloader
	if cfg.Source.Kind == types.SourceS3 {
		s3Client, err := s3client.New()
		if err != nil {
			runLogger.Err(err).Msg("Could not create S3 client")
			return err
		}
		defer s3Client.Close()
		downloader = s3Client
	}
	src, err := source.FromConfig(cfg.Source, downloader)
	if err != nil {
		return err
	}

	words, err := src.Load(ctx)
	if err != nil {
		runLogger.Err(err).Str("source", src.Describe()).Msg("Could not load word list")
		return err
	}
	runLogger.Info().Str("source", src.Describe()).Int("words", len(words)).Msg("Loaded word list")

	analysis, err := pipeline.Analyze(ctx, words, pipeline.GetCompoundParams(cfg))
	if err != nil {
		return err
	}
	if !asJSON {
		return report.Write(out, analysis.Ranked)
	}

	tid := utils.FingerprintHex(words)
	response := types.NewCompoundResponse(tid, words, analysis.Ranked, cfg.Top)
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}
