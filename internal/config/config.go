package config

import (
	"fmt"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config - run settings. The dataset and chart styling are fixed in code;
// only where the output goes and how it is delivered can be changed.
type Config struct {
	Chart    ChartConfig    `mapstructure:"chart"`
	Display  DisplayConfig  `mapstructure:"display"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Log      LogConfig      `mapstructure:"log"`
}

type ChartConfig struct {
	OutputPath  string `mapstructure:"output_path"`  // PDF export
	PreviewPath string `mapstructure:"preview_path"` // PNG preview, empty disables it
}

type DisplayConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Timeout int  `mapstructure:"timeout"` // seconds
}

// TelegramConfig - optional delivery of the preview to a chat
type TelegramConfig struct {
	BotToken     string `mapstructure:"bot_token"`
	ChatID       string `mapstructure:"chat_id"`
	Caption      string `mapstructure:"caption"`
	MaxRetries   int    `mapstructure:"max_retries"`
	SendInterval int    `mapstructure:"send_interval"` // seconds between sends
}

type LogConfig struct {
	Dir  string `mapstructure:"dir"`
	File bool   `mapstructure:"file"`
}

// Enabled reports whether the preview should be sent to Telegram.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != ""
}

// ParsedChatID returns the chat ID as Telegram expects it.
func (t TelegramConfig) ParsedChatID() (int64, error) {
	id, err := strconv.ParseInt(t.ChatID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram.chat_id %q: %w", t.ChatID, err)
	}
	return id, nil
}

// RegisterFlags adds the config flags to a command's flag set.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("chart.output_path", "mix.pdf", "PDF output path (env: PIM_CHART_OUTPUT_PATH)")
	flags.String("chart.preview_path", "mix.png", "PNG preview path, empty to skip (env: PIM_CHART_PREVIEW_PATH)")
	flags.Bool("display.enabled", true, "Open the chart in the system viewer (env: PIM_DISPLAY_ENABLED)")
	flags.Int("display.timeout", 10, "Viewer launch timeout in seconds (env: PIM_DISPLAY_TIMEOUT)")
	flags.String("telegram.bot_token", "", "Telegram bot token for chart delivery (env: TELEGRAM_BOT_TOKEN)")
	flags.String("telegram.chat_id", "", "Telegram chat ID for chart delivery (env: TELEGRAM_CHAT_ID)")
	flags.String("log.dir", "logs", "Log directory (env: PIM_LOG_DIR)")
	flags.Bool("log.file", false, "Write logs to <log.dir>/app.log (env: PIM_LOG_FILE)")
}

// LoadConfig from defaults, config.yaml, .env, environment and flags,
// later sources winning:
// 1. defaults
// 2. config.yaml
// 3. .env file and environment
// 4. flags set on the command line
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	godotenv.Load(".env")

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	}

	setupEnvAliases(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setupEnvAliases(v *viper.Viper) {
	v.BindEnv("chart.output_path", "PIM_CHART_OUTPUT_PATH")
	v.BindEnv("chart.preview_path", "PIM_CHART_PREVIEW_PATH")

	v.BindEnv("display.enabled", "PIM_DISPLAY_ENABLED")
	v.BindEnv("display.timeout", "PIM_DISPLAY_TIMEOUT")

	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
	v.BindEnv("telegram.caption", "TELEGRAM_CAPTION")
	v.BindEnv("telegram.max_retries", "TELEGRAM_MAX_RETRIES")
	v.BindEnv("telegram.send_interval", "TELEGRAM_SEND_INTERVAL")

	v.BindEnv("log.dir", "PIM_LOG_DIR")
	v.BindEnv("log.file", "PIM_LOG_FILE")
}

// setDefaults by default
func setDefaults(v *viper.Viper) {
	v.SetDefault("chart.output_path", "mix.pdf")
	v.SetDefault("chart.preview_path", "mix.png")

	v.SetDefault("display.enabled", true)
	v.SetDefault("display.timeout", 10)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.caption", "PIM Speedup")
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.send_interval", 1)

	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.file", false)
}

func validateConfig(cfg *Config) error {
	if cfg.Chart.OutputPath == "" {
		return fmt.Errorf("chart.output_path is required")
	}
	if cfg.Display.Timeout <= 0 {
		return fmt.Errorf("display.timeout must be positive, got %d", cfg.Display.Timeout)
	}
	if cfg.Telegram.Enabled() {
		if cfg.Chart.PreviewPath == "" {
			return fmt.Errorf("telegram delivery needs chart.preview_path")
		}
		if _, err := cfg.Telegram.ParsedChatID(); err != nil {
			return err
		}
	}
	return nil
}
