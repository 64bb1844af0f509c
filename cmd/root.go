package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is reported by the server health endpoint.
const Version = "1.0.0"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "staticmap",
	Short: "Render static map images from tiles and vector features",
	Long: `staticmap renders static map images from web map tiles with lines,
polygons, circles, custom figures and labels drawn on top.

The tiles should come from a web map service in PNG or JPEG format. Maps
are written as PNG, JPEG or GIF depending on the output file extension.

Examples:
  # Map centered on Berlin at zoom 12
  staticmap render --width 600 --height 400 --center 13.4,52.5 --zoom 12 -o berlin.png

  # Fit a route and two markers, choosing the zoom automatically
  staticmap render --width 800 --height 600 --line "13.37,52.51;13.40,52.52;13.45,52.50" \
    --marker "13.37,52.51;13.45,52.50" -o route.jpg

  # Features from a JSON document
  staticmap render --width 800 --height 600 --features features.json -o map.png

  # Start HTTP server
  staticmap serve --port 8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.staticmap.yaml)")
	addMapFlags(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".staticmap" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".staticmap")
	}

	// STATICMAP_TILE_URL, STATICMAP_SERVER_PORT, ...
	viper.SetEnvPrefix("staticmap")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
