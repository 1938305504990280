package cmd

import (
	"fmt"
	"os"

	spyerr "github.com/msto63/opspy/foundation/core/error"
	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/pkg/core/config"
	"github.com/msto63/opspy/pkg/core/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   int
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "opspy",
	Short: "opspy - OpenSees Aufruf-Spion",
	Long: `opspy führt OpenSees-Modellskripte (Lua) aus und beobachtet dabei
jeden Aufruf der OpenSees-Befehle.

Jeder Aufruf wird anhand einer deklarativen Grammatik in benannte Felder
zerlegt und an die zuständigen Handler weitergereicht. Die Handler sammeln
Knoten, Elemente, Materialien und Lasten des Modells.

Befehle:
  run      - Modellskript ausführen und beobachten
  parse    - Einzelnen Aufruf zerlegen
  grammar  - Grammatik anzeigen
  version  - Version anzeigen`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError("Ausführung fehlgeschlagen", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: $OPSPY_CONFIG oder ./opspy.toml)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Verbose Output (-v info, -vv debug, -vvv trace)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log-Format (text oder json)")
}

// loadConfig reads --config, then OPSPY_CONFIG and the default locations.
// Without any config file the defaults apply.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	cfg, err := config.LoadFromEnv()
	if spyerr.HasCode(err, spyerr.CodeMissingConfig) {
		return config.Default(), nil
	}
	return cfg, err
}

func setupLogger(cfg *config.Config) *log.Logger {
	format := cfg.General.LogFormat
	if logFormat != "" {
		format = logFormat
	}
	return logging.Install(logging.LoggerConfig{
		ServiceName: "opspy",
		Level:       logging.Verbose(cfg.General.LogLevel, verbose),
		Format:      format,
		Output:      os.Stderr,
	})
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s %s: %v\n", ErrorStyle.Render("Fehler:"), msg, err)
}
