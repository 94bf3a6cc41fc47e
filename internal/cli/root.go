// Package cli is the thin command-line front end over the
// orchestration engine: cobra command/flag parsing, viper/godotenv
// configuration, and zerolog logging, wired exactly the way the
// teacher's own root command does it. Rendering beyond what's needed
// for readable --dry-run/--list/--verbose output is explicitly out of
// scope.
package cli

import (
	"context"
	"fmt"
	"image/color"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentrun/conductor/internal/style"
)

var (
	cfgFile  string
	logLevel string
	quiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "conductor",
	Short: "Conductor drives coding-agent CLIs through recipe state machines",
	Long: `Conductor orchestrates a coding-agent CLI through a recipe: a finite
state machine of natural-language steps. The orchestrator alone decides
which step runs next; the agent only ever reports which outcome it reached.`,
	Version: buildVersion(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
}

// Execute adds all child commands to the root command and runs it. It is
// called once from cmd/conductor/main.go.
func Execute() error {
	return fang.Execute(context.Background(), rootCmd, fang.WithColorSchemeFunc(func(lightDark lipgloss.LightDarkFunc) fang.ColorScheme {
		return fang.ColorScheme{
			Base:        style.PrimaryTextColor,
			Title:       style.AccentColor,
			Description: style.PrimaryTextColor,
			Codeblock:   style.CodeColor,
			Program:     style.AccentColor,
			Comment:     style.MutedColor,
			Flag:        style.InfoColor,
			FlagDefault: style.MutedColor,
			Command:     style.SuccessColor,
			Argument:    style.PrimaryTextColor,
			Help:        style.InfoColor,
			Dash:        style.MutedColor,
			ErrorHeader: [2]color.Color{style.ErrorColor, style.ErrorBgColor},
			ErrorDetails: style.ErrorColor,
		}
	}))
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.conductor/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "disabled", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home + "/.conductor")
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("CONDUCTOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if !quiet {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}
}

func initLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	switch viper.GetString("log-level") {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}

	if !viper.GetBool("quiet") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func buildVersion() string {
	var (
		version = "dev"
		commit  = "unknown"
		date    = "unknown"
	)
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}
