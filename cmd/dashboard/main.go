// Command dashboard serves the bike-share rental dashboard and exports its tables.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bikeshare/internal/config"
	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/infrastructure"
)

type rootOptions struct {
	configFile string
	dataPath   string
}

func main() {
	err := newRootCmd().Execute()
	_ = infrastructure.CloseLogFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "dashboard",
		Short:         config.AppTitle,
		Long:          config.AppTitle + ": hourly, daily, monthly and weather rental views over a Capital Bikeshare CSV.",
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file (default: $BIKESHARE_CONFIG or config.yaml)")
	root.PersistentFlags().StringVar(&opts.dataPath, "data", "", "bike-share CSV file (overrides BIKESHARE_DATASET_FILE)")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newKPICmd(opts))
	return root
}

// loadConfig applies command line overrides on top of the loaded configuration
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadFrom(o.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if o.dataPath != "" {
		cfg.Dataset.Path = o.dataPath
	}
	return cfg, nil
}

// describe flattens validation details into one line for the terminal
func describe(err error) error {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	details, ok := apiErr.Details.(apierrors.ValidationErrors)
	if !ok || len(details.Errors) == 0 {
		return err
	}
	msgs := make([]string, 0, len(details.Errors))
	for _, e := range details.Errors {
		msgs = append(msgs, e.Message)
	}
	return fmt.Errorf("%s: %s", apiErr.Message, strings.Join(msgs, "; "))
}
