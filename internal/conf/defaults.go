package conf

import "github.com/spf13/viper"

// setDefaults registers the default configuration values with viper.
func setDefaults() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "FoundBox")
	viper.SetDefault("main.log.enabled", false)
	viper.SetDefault("main.log.path", "logs/foundbox.log")

	viper.SetDefault("model.path", "keras_model.tflite")
	viper.SetDefault("model.labelspath", "labels.txt")

	viper.SetDefault("store.csvpath", "founditems.csv")
	viper.SetDefault("store.imagedir", "images")

	// The desk runs against a pinned calendar date so that demo data stays
	// stable; clear this to use the real clock.
	viper.SetDefault("clock.today", "2026-02-19")

	viper.SetDefault("game.timelimit", 7)
	viper.SetDefault("game.mode", "timer")
	viper.SetDefault("game.wordsource", "space")
	viper.SetDefault("game.maxdistance", 10)

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.debug", false)
}
