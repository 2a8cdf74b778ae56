package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pim-speedup/internal/config"
	"pim-speedup/internal/features/charts"
	"pim-speedup/internal/features/publish"
	"pim-speedup/internal/features/speedup"
	"pim-speedup/internal/infra/exec"
	"pim-speedup/internal/infra/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Log.File {
		if err := log.EnableFileLogging(cfg.Log.Dir); err != nil {
			return err
		}
		defer log.Sync()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	renderer := charts.Renderer{
		PDFPath:     cfg.Chart.OutputPath,
		PreviewPath: cfg.Chart.PreviewPath,
	}
	artifact, err := renderer.Render(speedup.Default(), charts.DefaultSpec())
	if err != nil {
		log.LogError("Failed to render chart", zap.Error(err))
		return err
	}
	log.LogSuccess("Chart exported", zap.String("pdf", artifact.PDFPath))

	if cfg.Display.Enabled {
		showChart(ctx, artifact, time.Duration(cfg.Display.Timeout)*time.Second)
	}

	if cfg.Telegram.Enabled() {
		if err := publishChart(ctx, cfg.Telegram, artifact.PreviewPath); err != nil {
			return err
		}
	}

	return nil
}

// showChart opens the preview, or the PDF when no preview was written.
// The exported PDF is the result of the run, so a missing viewer is
// only a warning.
func showChart(ctx context.Context, artifact *charts.Artifact, timeout time.Duration) {
	path := artifact.PreviewPath
	if path == "" {
		path = artifact.PDFPath
	}
	if err := exec.OpenViewer(ctx, path, timeout); err != nil {
		log.LogWarn("Failed to display chart", zap.String("path", path), zap.Error(err))
		return
	}
	log.LogInfo("Chart opened in viewer", zap.String("path", path))
}

func publishChart(ctx context.Context, cfg config.TelegramConfig, path string) error {
	chatID, err := cfg.ParsedChatID()
	if err != nil {
		return err
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("failed to authorize telegram bot: %w", err)
	}
	log.LogInfo("Telegram bot authorized", zap.String("username", bot.Self.UserName))

	publisher := publish.NewPublisher(bot, chatID, publish.Options{
		MaxRetries:   cfg.MaxRetries,
		SendInterval: time.Duration(cfg.SendInterval) * time.Second,
	})
	return publisher.PublishChart(ctx, path, cfg.Caption)
}
