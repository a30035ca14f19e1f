package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/turbekoff/tabcalc/pkg/calc"
	"github.com/turbekoff/tabcalc/pkg/env"
	"github.com/turbekoff/tabcalc/pkg/history"
)

// Config is shared by every command.
type Config struct {
	HistoryPath      string         `env:"TABCALC_HISTORY_PATH" env-description:"SQLite history file, empty keeps history in memory"`
	HistoryRetention time.Duration  `env:"TABCALC_HISTORY_RETENTION" env-default:"8760h" env-description:"age after which history records are dropped"`
	AngleMode        calc.AngleMode `env:"TABCALC_ANGLE_MODE" env-default:"deg" env-description:"deg or rad"`
	PreviewDecimals  int            `env:"TABCALC_PREVIEW_DECIMALS" env-default:"10" env-description:"fraction digits of the live result"`
	HistoryDecimals  int            `env:"TABCALC_HISTORY_DECIMALS" env-default:"2" env-description:"fraction digits of history results"`
	Timezone         *time.Location `env:"TABCALC_TIMEZONE" env-default:"Asia/Kolkata" env-description:"home time zone for dates and conversions"`
}

// BotConfig is read by the bot command only.
type BotConfig struct {
	Token           string        `env:"TABCALC_TELEGRAM_TOKEN,required" env-description:"Telegram bot token"`
	Offset          int           `env:"TABCALC_TELEGRAM_OFFSET" env-default:"0"`
	Timeout         int           `env:"TABCALC_TELEGRAM_TIMEOUT" env-default:"60" env-description:"long polling timeout in seconds"`
	SessionTTL      time.Duration `env:"TABCALC_SESSION_TTL" env-default:"20m" env-description:"keypad session lifetime since the last key"`
	SessionCleanup  time.Duration `env:"TABCALC_SESSION_CLEANUP" env-default:"1m"`
	ShutdownTimeout time.Duration `env:"TABCALC_SHUTDOWN_TIMEOUT" env-default:"2m"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Read(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadBotConfig() (*BotConfig, error) {
	var cfg BotConfig
	if err := env.Read(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// app holds what the commands share once the configuration is loaded.
type app struct {
	config *Config
	logger *log.Logger
}

func (a *app) openHistory(ctx context.Context) (history.Store, error) {
	return history.Open(ctx, a.config.HistoryPath, a.config.HistoryRetention)
}

func newRootCommand(logger *log.Logger) *cobra.Command {
	a := &app{logger: logger}

	root := &cobra.Command{
		Use:   "tabcalc",
		Short: "Scientific calculator, finance and conversion toolkit",
		Long: `tabcalc evaluates calculator expressions the way the keypad types them
("5+10%", "2π", "sin(30", "5!") and bundles finance, date, time zone and
unit conversion tools. The same keypad is served in the terminal and as a
Telegram bot.

Configuration is read from the environment, see "tabcalc env".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadConfig()
			if err != nil {
				return err
			}
			a.config = config
			return nil
		},
	}

	root.AddCommand(
		newEvalCommand(a),
		newEMICommand(a),
		newInterestCommand(a),
		newRegularCommand(a),
		newStockCommand(a),
		newSIPCommand(a),
		newGSTCommand(a),
		newConvertCommand(a),
		newBMICommand(a),
		newTimezoneCommand(a),
		newDateCommand(a),
		newHistoryCommand(a),
		newEnvCommand(),
		newBotCommand(a),
		newTUICommand(a),
		newREPLCommand(a),
	)
	return root
}

func main() {
	if err := newRootCommand(log.Default()).Execute(); err != nil {
		os.Exit(1)
	}
}
