package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/relistan/shorten"
)

// Ensure LoggingShortenerService implements shorten.ShortenerService.
var _ shorten.ShortenerService = (*LoggingShortenerService)(nil)

// LoggingShortenerService wraps a ShortenerService with logging.
type LoggingShortenerService struct {
	next   shorten.ShortenerService
	logger *slog.Logger
}

// NewLoggingShortenerService creates a new LoggingShortenerService.
func NewLoggingShortenerService(next shorten.ShortenerService, logger *slog.Logger) *LoggingShortenerService {
	return &LoggingShortenerService{next: next, logger: logger}
}

// Shorten delegates to the wrapped service and logs the operation.
func (s *LoggingShortenerService) Shorten(ctx context.Context, url string) (link *shorten.ShortLink, err error) {
	defer func(begin time.Time) {
		var code string
		if link != nil {
			code = link.ShortCode
		}
		s.logger.Info("shorten",
			"url", url,
			"code", code,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Shorten(ctx, url)
}

// Lookup delegates to the wrapped service and logs the operation.
func (s *LoggingShortenerService) Lookup(ctx context.Context, code string) (link *shorten.ShortLink, err error) {
	defer func(begin time.Time) {
		s.logger.Info("lookup",
			"code", code,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Lookup(ctx, code)
}

// Resolve delegates to the wrapped service and logs the operation.
func (s *LoggingShortenerService) Resolve(ctx context.Context, code string) (url string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("resolve",
			"code", code,
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Resolve(ctx, code)
}
