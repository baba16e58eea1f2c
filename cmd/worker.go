package cmd

import (
	"fmt"
	"github.com/spf13/cobra"
	"text2phenotype.com/compound/logger"
	"text2phenotype.com/compound/pipeline"
	"text2phenotype.com/compound/worker"
	"time"
)

const (
	workerStartMaxRetries = 5
	workerRestartDelay    = 5 * time.Second
)

func init() {
	rootCmd.AddCommand(workerCmd)
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "process compound jobs from RabbitMQ",
	Long: "worker consumes job messages, reads the word list of each job from S3,\n" +
		"uploads the JSON report next to it and keeps the job status in Redis.",
	Args: cobra.NoArgs,
	RunE: runWorker,
}

func runWorker(cmd *cobra.Command, args []string) error {
	mainLogger := logger.NewLogger("Main")
	env, err := readEnv()
	if err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	cfg, err := loadConfiguration(cmd, env)
	if err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	ppln := pipeline.NewCompoundPipeline(pipeline.GetCompoundParams(cfg))

	if env.RestAPIActive {
		go func() {
			mainLogger.Info().Msg("Starting API service")
			_ = serveAPI(env, ppln)
		}()
	}

	mainLogger.Info().Msg("Start compound worker")
	failures := 0
	for {
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			failures++
			if failures >= workerStartMaxRetries {
				mainLogger.Err(err).Msgf("Could not initialize RMQ worker after %d retries", failures)
				return err
			}
			mainLogger.Err(err).Msg("Could not initialize RMQ worker. Retrying in 5 seconds")
			time.Sleep(workerRestartDelay)
			continue
		}
		failures = 0
		if err = rmqWorker.StartWorker(); err != nil {
			mainLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(workerRestartDelay)
		}
	}
}
