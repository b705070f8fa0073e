// Package serve implements the web server subcommand.
package serve

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/foundbox/foundbox/internal/classifier"
	"github.com/foundbox/foundbox/internal/conf"
	"github.com/foundbox/foundbox/internal/httpcontroller"
	"github.com/foundbox/foundbox/internal/labels"
	"github.com/foundbox/foundbox/internal/logging"
	"github.com/foundbox/foundbox/internal/store"
)

// Command returns the serve subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the FoundBox web interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}
}

func runServer(settings *conf.Settings) error {
	log := logging.ForService("serve")

	if settings.Main.Log.Enabled {
		fileLogger, closeLog, err := logging.NewFileLogger(settings.Main.Log.Path, "foundbox", slog.LevelInfo)
		if err != nil {
			return err
		}
		defer func() { _ = closeLog() }()
		log = fileLogger
	}

	table, err := labels.Load(settings.Model.LabelsPath)
	if err != nil {
		return err
	}

	// A missing or broken model disables classification for the process
	// lifetime; everything else keeps working.
	var opts []httpcontroller.Option
	model, err := classifier.New(settings.Model.Path)
	if err != nil {
		log.Warn("classifier unavailable, manual capture only", "error", err)
	} else {
		opts = append(opts, httpcontroller.WithPredictor(model))
	}

	controller, err := httpcontroller.New(settings, store.New(settings.Store.CSVPath), table, opts...)
	if err != nil {
		return err
	}
	return controller.Start()
}
