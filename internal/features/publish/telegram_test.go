package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pim-speedup/internal/infra/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	errs []error
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return tgbotapi.Message{}, err
	}
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func writeChart(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mix.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG"), 0644))
	return path
}

func fastOptions() Options {
	return Options{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestPublishChartSendsPhoto(t *testing.T) {
	sender := &fakeSender{}
	path := writeChart(t)

	p := NewPublisher(sender, 42, fastOptions())
	require.NoError(t, p.PublishChart(context.Background(), path, "PIM Speedup"))

	require.Len(t, sender.sent, 1)
	photo, ok := sender.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.EqualValues(t, 42, photo.ChatID)
	assert.Equal(t, "PIM Speedup", photo.Caption)
	assert.Equal(t, tgbotapi.FilePath(path), photo.File)
}

func TestPublishChartRetriesThrottling(t *testing.T) {
	throttled := &tgbotapi.Error{Code: 429, Message: "Too Many Requests"}
	sender := &fakeSender{errs: []error{throttled, &tgbotapi.Error{Code: 502}}}

	p := NewPublisher(sender, 42, fastOptions())
	require.NoError(t, p.PublishChart(context.Background(), writeChart(t), "caption"))
	assert.Len(t, sender.sent, 3)
}

func TestPublishChartStopsOnPermanentError(t *testing.T) {
	sender := &fakeSender{errs: []error{&tgbotapi.Error{Code: 400, Message: "chat not found"}}}

	p := NewPublisher(sender, 42, fastOptions())
	err := p.PublishChart(context.Background(), writeChart(t), "caption")
	require.Error(t, err)

	var apiErr *retry.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Code)
	assert.Len(t, sender.sent, 1)
}

func TestPermanentErrorsKeepBreakerClosed(t *testing.T) {
	var errs []error
	for i := 0; i < 8; i++ {
		errs = append(errs, &tgbotapi.Error{Code: 400, Message: "chat not found"})
	}
	sender := &fakeSender{errs: errs}
	p := NewPublisher(sender, 42, fastOptions())
	path := writeChart(t)

	for i := 0; i < 8; i++ {
		require.Error(t, p.PublishChart(context.Background(), path, "caption"))
	}
	assert.Equal(t, gobreaker.StateClosed, p.breaker.State())

	require.NoError(t, p.PublishChart(context.Background(), path, "caption"))
	assert.Len(t, sender.sent, 9)
}

func TestServerErrorsOpenBreaker(t *testing.T) {
	var errs []error
	for i := 0; i < 5; i++ {
		errs = append(errs, &tgbotapi.Error{Code: 502, Message: "Bad Gateway"})
	}
	sender := &fakeSender{errs: errs}
	opts := fastOptions()
	opts.MaxRetries = 4
	p := NewPublisher(sender, 42, opts)

	require.Error(t, p.PublishChart(context.Background(), writeChart(t), "caption"))
	assert.Equal(t, gobreaker.StateOpen, p.breaker.State())
	assert.Len(t, sender.sent, 5)
}

func TestIsRejection(t *testing.T) {
	assert.True(t, isRejection(&retry.APIError{Code: 400}))
	assert.True(t, isRejection(&retry.APIError{Code: 403}))
	assert.False(t, isRejection(&retry.APIError{Code: 429}))
	assert.False(t, isRejection(&retry.APIError{Code: 502}))
	assert.False(t, isRejection(errors.New("connection reset")))
	assert.False(t, isRejection(nil))
}

func TestPublishChartMissingFile(t *testing.T) {
	sender := &fakeSender{}
	p := NewPublisher(sender, 42, fastOptions())

	err := p.PublishChart(context.Background(), filepath.Join(t.TempDir(), "missing.png"), "caption")
	require.Error(t, err)
	assert.Empty(t, sender.sent)
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, classify(plain))

	tgErr := &tgbotapi.Error{Code: 429, Message: "slow down"}
	tgErr.RetryAfter = 7
	var apiErr *retry.APIError
	require.True(t, errors.As(classify(tgErr), &apiErr))
	assert.Equal(t, 429, apiErr.Code)
	assert.Equal(t, 7*time.Second, apiErr.RetryAfter)

	require.True(t, errors.As(classify(tgbotapi.Error{Code: 500}), &apiErr))
	assert.Equal(t, 500, apiErr.Code)
}
