// Package game implements the typing minigame as a terminal UI.
package game

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/foundbox/foundbox/internal/conf"
	minigame "github.com/foundbox/foundbox/internal/game"
	"github.com/foundbox/foundbox/internal/labels"
)

// Command returns the game subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "game",
		Short: "Play the space typing minigame in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := engineFromSettings(settings)
			if err != nil {
				return err
			}
			program := tea.NewProgram(newModel(engine))
			_, err = program.Run()
			return err
		},
	}
}

// engineFromSettings maps game configuration onto an engine. The "labels"
// word source borrows the category vocabulary as the word list.
func engineFromSettings(settings *conf.Settings) (*minigame.Engine, error) {
	cfg := minigame.Config{
		TimeLimit: time.Duration(settings.Game.TimeLimit) * time.Second,
	}
	if settings.Game.Mode == "planet" {
		cfg.Mode = minigame.ModePlanet
		cfg.MaxDistance = settings.Game.MaxDistance
	}
	if settings.Game.WordSource == "labels" {
		table, err := labels.Load(settings.Model.LabelsPath)
		if err != nil {
			return nil, err
		}
		cfg.Words = table.Names()
	}
	return minigame.New(cfg), nil
}
