package publish

// Delivery of rendered charts to a Telegram chat
// Sends are spaced by a rate limiter, retried on 429/5xx with backoff
// and cut off by a circuit breaker when the API keeps failing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	logging "pim-speedup/internal/infra/log"
	"pim-speedup/internal/infra/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sender is the part of *tgbotapi.BotAPI the publisher needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Options struct {
	MaxRetries   int
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	SendInterval time.Duration
}

type Publisher struct {
	sender  Sender
	chatID  int64
	opts    Options
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

func NewPublisher(sender Sender, chatID int64, opts Options) *Publisher {
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}

	limit := rate.Inf
	if opts.SendInterval > 0 {
		limit = rate.Every(opts.SendInterval)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "telegram",
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A rejected request proves the API is up; only throttling, server
		// and transport errors count against it.
		IsSuccessful: func(err error) bool {
			return err == nil || isRejection(classify(err))
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.LogWarn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Publisher{
		sender:  sender,
		chatID:  chatID,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		breaker: breaker,
	}
}

// PublishChart sends the image at path as a photo with caption.
func (p *Publisher) PublishChart(ctx context.Context, path, caption string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("chart file is not readable: %w", err)
	}

	retryOpts := retry.Options{
		MaxRetries: p.opts.MaxRetries,
		BaseDelay:  p.opts.BaseDelay,
		MaxDelay:   p.opts.MaxDelay,
	}

	start := time.Now()
	err := retry.Do(ctx, retryOpts, func() error {
		if err := p.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait failed: %w", err)
		}

		_, err := p.breaker.Execute(func() (interface{}, error) {
			photo := tgbotapi.NewPhoto(p.chatID, tgbotapi.FilePath(path))
			photo.Caption = caption
			return p.sender.Send(photo)
		})
		return classify(err)
	})
	if err != nil {
		logging.LogError("Failed to send chart", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to send chart: %w", err)
	}

	logging.LogSuccess("Chart sent to Telegram",
		zap.String("path", path),
		zap.Int64("chatID", p.chatID),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// isRejection reports whether err is a permanent API answer such as 400 or 403.
func isRejection(err error) bool {
	var apiErr *retry.APIError
	return errors.As(err, &apiErr) && !retry.IsRetryable(apiErr)
}

// classify maps Telegram API failures onto retry.APIError so the retry
// policy can tell throttling and server errors from permanent rejections.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		var valueErr tgbotapi.Error
		if errors.As(err, &valueErr) {
			apiErr = &valueErr
		}
	}
	if apiErr != nil {
		return &retry.APIError{
			Code:       apiErr.Code,
			Message:    apiErr.Message,
			RetryAfter: time.Duration(apiErr.RetryAfter) * time.Second,
		}
	}
	return err
}
