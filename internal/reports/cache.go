package reports

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v3"

	"github.com/vitalis-health/vitalis-go/internal/api"
)

// ErrCacheEmpty is returned when the local cache holds no reports yet.
var ErrCacheEmpty = errors.New("report cache is empty")

// reportPrefix namespaces report entries. The report ID follows as an
// 8-byte big-endian integer so iteration order matches ID order.
var reportPrefix = []byte("report/")

// Cache is a badger-backed local mirror of the caller's reports.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenCache opens (or creates) the cache under dir.
func OpenCache(dir string, logger *slog.Logger) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLogger{logger: logger}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cache: open db: %w", err)
	}

	return &Cache{db: db, logger: logger}, nil
}

// OpenCacheInMemory opens an ephemeral cache that never touches disk.
func OpenCacheInMemory(logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = &badgerLogger{logger: logger}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cache: open in-memory db: %w", err)
	}

	return &Cache{db: db, logger: logger}, nil
}

// Replace atomically swaps the cached report set for the given one.
// Reports that disappeared server-side disappear locally too.
func (c *Cache) Replace(reports []api.Report) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = reportPrefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		var stale [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		for _, r := range reports {
			value, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("encode report %d: %w", r.ID, err)
			}
			if err := txn.Set(reportKey(r.ID), value); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("cache: replace: %w", err)
	}

	c.logger.Debug("report cache refreshed", "count", len(reports))
	return nil
}

// Put stores or updates a single report.
func (c *Cache) Put(r api.Report) error {
	value, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("cache: encode report %d: %w", r.ID, err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(reportKey(r.ID), value)
	})
	if err != nil {
		return fmt.Errorf("cache: put: %w", err)
	}
	return nil
}

// Reports returns all cached reports in ascending ID order.
func (c *Cache) Reports() ([]api.Report, error) {
	var reports []api.Report

	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = reportPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}

			var r api.Report
			if err := json.Unmarshal(value, &r); err != nil {
				return fmt.Errorf("decode %q: %w", it.Item().Key(), err)
			}
			reports = append(reports, r)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cache: reports: %w", err)
	}

	return reports, nil
}

// Latest returns the most recently uploaded cached report.
func (c *Cache) Latest() (api.Report, error) {
	reports, err := c.Reports()
	if err != nil {
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

// Clear drops every cached report. Called on logout so a later login
// under another account never sees stale data.
func (c *Cache) Clear() error {
	err := c.db.DropPrefix(reportPrefix)
	if err != nil {
		return fmt.Errorf("cache: clear: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying store.
func (c *Cache) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("cache: close db: %w", err)
	}
	return nil
}

func reportKey(id int) []byte {
	key := make([]byte, len(reportPrefix)+8)
	copy(key, reportPrefix)
	binary.BigEndian.PutUint64(key[len(reportPrefix):], uint64(id))
	return key
}

// badgerLogger adapts slog.Logger to Badger's Logger interface. Badger
// is chatty at info level, so its info output is demoted to debug.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
