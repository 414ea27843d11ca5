package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"f1fastestlaps/log"
	botCmd "f1fastestlaps/pkg/cmd/bot"
	exploreCmd "f1fastestlaps/pkg/cmd/explore"
	exportCmd "f1fastestlaps/pkg/cmd/export"
	serveCmd "f1fastestlaps/pkg/cmd/serve"
	"f1fastestlaps/pkg/config"
)

const envPrefix = "F1LAPS"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "f1laps",
	Short: "Fastest lap datasets from the OpenF1 api and a dashboard to explore them",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Init(config.LogLevel, config.LogFormat)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	log.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.f1laps.yml or ./.f1laps.yml)")

	rootCmd.PersistentFlags().StringVar(&config.APIURL, "api-url",
		config.DefaultAPIURL,
		"Base URL of the OpenF1 api")
	rootCmd.PersistentFlags().StringVar(&config.Timeout, "timeout",
		config.DefaultTimeout,
		"Timeout of a single api call")
	rootCmd.PersistentFlags().IntSliceVar(&config.Years, "years",
		config.DefaultYears,
		"Seasons to process")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat, "log-format",
		"text",
		"controls the log output format (json, text)")
	rootCmd.PersistentFlags().StringVar(&config.DB, "db",
		config.DefaultDB,
		"sqlite file for the run history (empty disables it)")
	rootCmd.PersistentFlags().StringVar(&config.TelegramToken, "telegram-token",
		os.Getenv("TELEGRAM_TOKEN"),
		"Telegram bot token")
	rootCmd.PersistentFlags().Int64SliceVar(&config.NotifyChatIDs, "notify-chat-ids",
		nil,
		"Telegram chats notified when an export finished")

	// add commands here
	rootCmd.AddCommand(exportCmd.NewExportCmd())
	rootCmd.AddCommand(serveCmd.NewServeCmd())
	rootCmd.AddCommand(exploreCmd.NewExploreCmd())
	rootCmd.AddCommand(botCmd.NewBotCmd())
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	// a missing .env is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".f1laps")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	if !rootCmd.PersistentFlags().Changed("telegram-token") && config.TelegramToken == "" {
		config.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
		for _, sub := range cmd.Commands() {
			bindFlags(sub, viper.GetViper())
		}
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --log-level to F1LAPS_LOG_LEVEL
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := fmt.Sprintf("%v", v.Get(f.Name))
			if strings.HasSuffix(f.Value.Type(), "Slice") {
				// yaml lists and comma separated env values
				val = strings.Join(v.GetStringSlice(f.Name), ",")
			}
			if err := cmd.Flags().Set(f.Name, val); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
