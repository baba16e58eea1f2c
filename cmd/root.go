package cmd

import (
	"fmt"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"text2phenotype.com/compound/logger"
	"text2phenotype.com/compound/types"
)

type Config struct {
	ConfigPath    string  `envconfig:"COMPOUND_CONFIG_PATH"`
	RestAPIActive bool    `envconfig:"COMPOUND_REST_API_ACTIVE" default:"false"`
	RestAPIPort   string  `envconfig:"COMPOUND_REST_API_PORT" default:"10000"`
	RateLimit     float64 `envconfig:"COMPOUND_RATE_LIMIT" default:"0"`
	RateBurst     int     `envconfig:"COMPOUND_RATE_BURST" default:"1"`
}

var rootCmd = &cobra.Command{
	Use:   "compound",
	Short: "find the compound words of a word list",
	Long: "compound builds a prefix trie over a word list and reports the words\n" +
		"that are concatenations of other words in the same list.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadEnvFile,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to a YAML analysis profile (env COMPOUND_CONFIG_PATH)")
	rootCmd.PersistentFlags().String("env-file", "", "load COMPOUND_* variables from a .env file; set variables win")
}

func loadEnvFile(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to read env file %s: %w", envFile, err)
	}
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

func readEnv() (Config, error) {
	var config Config
	err := envconfig.Process("", &config)
	return config, err
}

// loadConfiguration resolves the analysis profile: the --config flag wins
// over COMPOUND_CONFIG_PATH, and without either the defaults are used.
func loadConfiguration(cmd *cobra.Command, env Config) (types.Configuration, error) {
	cmdLogger := logger.NewLogger("CLI")
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = env.ConfigPath
	}
	if configPath == "" {
		cmdLogger.Debug().Msg("No analysis profile given, using defaults")
		return types.DefaultConfiguration(), nil
	}
	cfg, err := types.LoadConfiguration(configPath)
	if err != nil {
		cmdLogger.Err(err).Str("path", configPath).Msg("Failed to load analysis profile")
		return types.Configuration{}, err
	}
	cmdLogger.Info().Str("name", cfg.Name).Str("path", configPath).Msg("Loaded analysis profile")
	return cfg, nil
}
