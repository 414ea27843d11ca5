package config

import (
	"fmt"
	"time"
)

// this holds the resolved configuration values from CLI, config file and env
//
//nolint:lll // readablity
var (
	APIURL        string  // base URL of the OpenF1 api
	Timeout       string  // timeout for a single api call
	Years         []int   // seasons to export
	LogLevel      string  // sets the log level (zap log level values)
	LogFormat     string  // text vs json
	DB            string  // path to the sqlite run history, empty disables it
	Addr          string  // listen addr of the dashboard
	Title         string  // dashboard title
	TelegramToken string  // bot token, used by the bot and export notifications
	NotifyChatIDs []int64 // telegram chats notified after an export
)

const (
	DefaultAPIURL  = "https://api.openf1.org/v1"
	DefaultTimeout = "30s"
	DefaultDB      = "./f1laps.db"
	DefaultAddr    = ":8080"
	DefaultTitle   = "F1 Fastest Laps Explorer"
)

var DefaultYears = []int{2023, 2024, 2025}

// APITimeout returns the parsed Timeout. Invalid or non-positive values
// yield the default together with the parse error.
func APITimeout() (time.Duration, error) {
	d, err := time.ParseDuration(Timeout)
	if err != nil {
		def, _ := time.ParseDuration(DefaultTimeout)
		return def, err
	}
	if d <= 0 {
		def, _ := time.ParseDuration(DefaultTimeout)
		return def, fmt.Errorf("timeout must be positive, got %s", Timeout)
	}
	return d, nil
}
