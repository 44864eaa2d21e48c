package reports

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vitalis-health/vitalis-go/internal/api"
)

// Uploader is the slice of the service client the report service needs.
type Uploader interface {
	ListReports(ctx context.Context) ([]api.Report, error)
	UploadReport(ctx context.Context, filename string, r io.Reader) (api.Analysis, error)
	Chat(ctx context.Context, reportText string, history []api.ChatMessage) (string, error)
}

// Service coordinates report operations between the remote client and
// the local cache. Remote calls are authoritative; the cache is updated
// best-effort after each success.
type Service struct {
	client Uploader
	cache  *Cache
	logger *slog.Logger
}

// NewService builds a report service. cache may be nil, in which case
// the service runs remote-only.
func NewService(client Uploader, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, cache: cache, logger: logger}
}

// List fetches the caller's reports from the service and refreshes the
// local cache with the result.
func (s *Service) List(ctx context.Context) ([]api.Report, error) {
	reports, err := s.client.ListReports(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Replace(reports); err != nil {
			s.logger.Warn("report cache refresh failed", "error", err)
		}
	}

	return reports, nil
}

// Cached returns locally cached reports without touching the network.
func (s *Service) Cached() ([]api.Report, error) {
	if s.cache == nil {
		return nil, ErrCacheEmpty
	}
	return s.cache.Reports()
}

// Latest fetches the caller's reports and returns the most recently
// uploaded one. On network failure it falls back to the cache so a
// previously seen report stays readable offline.
func (s *Service) Latest(ctx context.Context) (api.Report, error) {
	reports, err := s.List(ctx)
	if err != nil {
		if s.cache != nil {
			cached, cacheErr := s.cache.Latest()
			if cacheErr == nil {
				s.logger.Warn("serving latest report from cache", "error", err)
				return cached, nil
			}
		}
		return api.Report{}, err
	}

	if len(reports) == 0 {
		return api.Report{}, ErrCacheEmpty
	}

	latest := reports[0]
	for _, r := range reports[1:] {
		if r.UploadedAt.After(latest.UploadedAt) {
			latest = r
		}
	}
	return latest, nil
}

// Upload submits the file at path for analysis and caches the stored
// report on success.
func (s *Service) Upload(ctx context.Context, path string) (api.Analysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return api.Analysis{}, fmt.Errorf("open report file: %w", err)
	}
	defer f.Close()

	filename := filepath.Base(path)
	analysis, err := s.client.UploadReport(ctx, filename, f)
	if err != nil {
		return api.Analysis{}, err
	}

	if s.cache != nil {
		report := api.Report{
			ID:            analysis.ReportID,
			FileName:      filename,
			UploadedAt:    time.Now().UTC(),
			Summary:       analysis.Summary,
			ExtractedText: analysis.ExtractedText,
			Findings:      analysis.Findings,
		}
		if err := s.cache.Put(report); err != nil {
			s.logger.Warn("caching uploaded report failed", "error", err)
		}
	}

	return analysis, nil
}

// Ask sends a follow-up question about reportText with the conversation
// so far and returns the assistant's reply.
func (s *Service) Ask(ctx context.Context, reportText string, history []api.ChatMessage) (string, error) {
	return s.client.Chat(ctx, reportText, history)
}

// ClearCache drops cached reports, typically on logout.
func (s *Service) ClearCache() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Clear()
}
