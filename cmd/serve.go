package cmd

import (
	"fmt"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"net/http"
	"text2phenotype.com/compound/api"
	"text2phenotype.com/compound/logger"
	"text2phenotype.com/compound/pipeline"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("port", "", "port of the REST API (env COMPOUND_REST_API_PORT)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "answer word lists POSTed over HTTP with the JSON report",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := readEnv()
	if err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		env.RestAPIPort = port
	}
	cfg, err := loadConfiguration(cmd, env)
	if err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	ppln := pipeline.NewCompoundPipeline(pipeline.GetCompoundParams(cfg))
	return serveAPI(env, ppln)
}

func newAPIRequest(env Config, ppln pipeline.Pipeline) *api.Request {
	apiRequest := &api.Request{Pipeline: ppln}
	if env.RateLimit > 0 {
		apiRequest.Limiter = rate.NewLimiter(rate.Limit(env.RateLimit), env.RateBurst)
	}
	return apiRequest
}

func serveAPI(env Config, ppln pipeline.Pipeline) error {
	apiLogger := logger.NewLogger("API")
	host := fmt.Sprintf(":%s", env.RestAPIPort)
	apiLogger.Info().Msgf("REST API on %s", host)
	err := http.ListenAndServe(host, api.NewHandler(newAPIRequest(env, ppln)))
	apiLogger.Err(err).Caller().Msg("REST API stopped with error")
	return err
}
