package main

import (
	"os"
	"text2phenotype.com/compound/cmd"
	"text2phenotype.com/compound/logger"
)

func main() {
	logger.SetupLogging()
	if err := cmd.Execute(); err != nil {
		mainLogger := logger.NewLogger("Main")
		mainLogger.Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
