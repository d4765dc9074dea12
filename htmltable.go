// Package htmltable extracts tabular data from HTML documents.
// It locates <table> elements, optionally keeps only those matching a header
// or attribute filter, and exposes each one as header and body rows of text
// cells. Parsing is done by golang.org/x/net/html.
package htmltable

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cybergodev/htmltable/internal"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// Default configuration values.
const (
	DefaultMaxInputSize      = 50 * 1024 * 1024 // 50MB
	DefaultMaxCacheEntries   = 1000             // 1000 entries
	DefaultWorkerPoolSize    = 4                // 4 workers
	DefaultCacheTTL          = time.Hour        // 1 hour
	DefaultMaxDepth          = 100              // 100 levels
	DefaultProcessingTimeout = 30 * time.Second // 30 seconds
)

// Internal constants for validation and optimization.
const (
	initialTablesCap    = 4   // Initial result slice capacity
	initialMarkdownSize = 256 // Initial Markdown builder capacity
)

// Processor extracts tables from HTML input. It is safe for concurrent use.
type Processor struct {
	config *Config
	logger *zap.Logger
	cache  *internal.Cache[[]*Table]
	closed atomic.Bool
	stats  struct {
		totalProcessed   atomic.Int64
		cacheHits        atomic.Int64
		cacheMisses      atomic.Int64
		errorCount       atomic.Int64
		tablesFound      atomic.Int64
		totalProcessTime atomic.Int64
		timedMisses      atomic.Int64 // misses that completed and added to totalProcessTime
	}
}

// Config holds processor configuration.
type Config struct {
	MaxInputSize      int
	MaxCacheEntries   int
	CacheTTL          time.Duration
	WorkerPoolSize    int
	MaxDepth          int           // zero disables the nesting limit
	ProcessingTimeout time.Duration // zero disables the timeout

	// NormalizeWhitespace collapses whitespace runs inside cell text to a
	// single space. Surrounding whitespace is always trimmed.
	NormalizeWhitespace bool

	// ForcedEncoding skips charset detection for byte input, e.g. "windows-1252".
	ForcedEncoding string

	// Logger receives debug and warning events. Nil disables logging.
	Logger *zap.Logger
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		MaxInputSize:      DefaultMaxInputSize,
		MaxCacheEntries:   DefaultMaxCacheEntries,
		CacheTTL:          DefaultCacheTTL,
		WorkerPoolSize:    DefaultWorkerPoolSize,
		MaxDepth:          DefaultMaxDepth,
		ProcessingTimeout: DefaultProcessingTimeout,
	}
}

func validateConfig(c Config) error {
	switch {
	case c.MaxInputSize <= 0:
		return fmt.Errorf("%w: MaxInputSize must be positive", ErrInvalidConfig)
	case c.MaxCacheEntries < 0:
		return fmt.Errorf("%w: MaxCacheEntries cannot be negative", ErrInvalidConfig)
	case c.CacheTTL < 0:
		return fmt.Errorf("%w: CacheTTL cannot be negative", ErrInvalidConfig)
	case c.WorkerPoolSize <= 0:
		return fmt.Errorf("%w: WorkerPoolSize must be positive", ErrInvalidConfig)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: MaxDepth cannot be negative", ErrInvalidConfig)
	case c.ProcessingTimeout < 0:
		return fmt.Errorf("%w: ProcessingTimeout cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// Statistics contains processing metrics.
type Statistics struct {
	TotalProcessed     int64
	CacheHits          int64
	CacheMisses        int64
	ErrorCount         int64
	TablesFound        int64
	AverageProcessTime time.Duration
}

// New creates a Processor with the given configuration.
func New(config Config) (*Processor, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		config: &config,
		logger: logger.Named("htmltable"),
		cache:  internal.NewCache[[]*Table](config.MaxCacheEntries, config.CacheTTL),
	}, nil
}

// NewWithDefaults creates a Processor with default configuration.
func NewWithDefaults() *Processor {
	p, _ := New(DefaultConfig())
	return p
}

// FindTables parses htmlContent and returns the tables accepted by f in
// document order. A document without matching tables yields an empty slice
// and a nil error.
func (p *Processor) FindTables(htmlContent string, f Filter) ([]*Table, error) {
	if p.closed.Load() {
		return nil, ErrProcessorClosed
	}
	if len(htmlContent) > p.config.MaxInputSize {
		p.stats.errorCount.Add(1)
		return nil, fmt.Errorf("%w: size=%d, max=%d", ErrInputTooLarge, len(htmlContent), p.config.MaxInputSize)
	}
	return p.findTables(htmlContent, f)
}

// findTables runs the cached extraction once input limits have been checked.
func (p *Processor) findTables(htmlContent string, f Filter) ([]*Table, error) {
	startTime := time.Now()

	cacheKey := p.generateCacheKey(htmlContent, f)
	if cached, ok := p.cache.Get(cacheKey); ok {
		p.stats.cacheHits.Add(1)
		p.stats.totalProcessed.Add(1)
		p.logger.Debug("cache hit", zap.Stringer("filter", f), zap.Int("tables", len(cached)))
		return slices.Clone(cached), nil
	}
	p.stats.cacheMisses.Add(1)

	var tables []*Table
	var err error
	if p.config.ProcessingTimeout > 0 {
		tables, err = p.processWithTimeout(htmlContent, f)
	} else {
		tables, err = p.processContent(htmlContent, f)
	}
	if err != nil {
		p.stats.errorCount.Add(1)
		return nil, err
	}

	processingTime := time.Since(startTime)
	p.stats.totalProcessTime.Add(int64(processingTime))
	p.stats.timedMisses.Add(1)
	p.stats.totalProcessed.Add(1)
	p.stats.tablesFound.Add(int64(len(tables)))
	p.logger.Debug("tables extracted",
		zap.Stringer("filter", f),
		zap.Int("tables", len(tables)),
		zap.Duration("elapsed", processingTime),
	)

	if p.config.MaxCacheEntries > 0 {
		p.cache.Set(cacheKey, tables)
	}
	return slices.Clone(tables), nil
}

// processWithTimeout processes content with timeout protection.
func (p *Processor) processWithTimeout(htmlContent string, f Filter) ([]*Table, error) {
	type processResult struct {
		tables []*Table
		err    error
	}

	resultChan := make(chan processResult, 1)
	go func() {
		tables, err := p.processContent(htmlContent, f)
		resultChan <- processResult{tables: tables, err: err}
	}()

	timer := time.NewTimer(p.config.ProcessingTimeout)
	defer timer.Stop()

	select {
	case res := <-resultChan:
		return res.tables, res.err
	case <-timer.C:
		p.logger.Warn("processing timeout",
			zap.Duration("timeout", p.config.ProcessingTimeout),
			zap.Int("size", len(htmlContent)),
		)
		return nil, ErrProcessingTimeout
	}
}

func (p *Processor) processContent(htmlContent string, f Filter) ([]*Table, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return []*Table{}, nil
	}
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if limit := p.config.MaxDepth; limit > 0 {
		if depth := internal.DocumentDepth(doc, limit); depth > limit {
			return nil, fmt.Errorf("%w: limit %d", ErrMaxDepthExceeded, limit)
		}
	}
	return collectTables(doc, f, p.config.NormalizeWhitespace), nil
}

// FindTablesBytes detects the character encoding of data, decodes it to
// UTF-8 and extracts the tables accepted by f. MaxInputSize applies to the
// raw bytes; decoding may grow the text past it.
func (p *Processor) FindTablesBytes(data []byte, f Filter) ([]*Table, error) {
	if p.closed.Load() {
		return nil, ErrProcessorClosed
	}
	if len(data) > p.config.MaxInputSize {
		p.stats.errorCount.Add(1)
		return nil, fmt.Errorf("%w: size=%d, max=%d", ErrInputTooLarge, len(data), p.config.MaxInputSize)
	}
	content, charset, err := internal.DetectAndConvertToUTF8String(data, p.config.ForcedEncoding)
	if err != nil {
		p.stats.errorCount.Add(1)
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	p.logger.Debug("decoded input", zap.String("charset", charset), zap.Int("size", len(data)))
	return p.findTables(content, f)
}

// FindTablesReader reads all of r and extracts the tables accepted by f.
func (p *Processor) FindTablesReader(r io.Reader, f Filter) ([]*Table, error) {
	if p.closed.Load() {
		return nil, ErrProcessorClosed
	}
	data, err := io.ReadAll(io.LimitReader(r, int64(p.config.MaxInputSize)+1))
	if err != nil {
		p.stats.errorCount.Add(1)
		return nil, fmt.Errorf("read input: %w", err)
	}
	return p.FindTablesBytes(data, f)
}

// FindTablesFromFile reads an HTML file and extracts the tables accepted by f.
func (p *Processor) FindTablesFromFile(filePath string, f Filter) ([]*Table, error) {
	if p.closed.Load() {
		return nil, ErrProcessorClosed
	}
	if filePath == "" {
		return nil, fmt.Errorf("%w: empty file path", ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		p.stats.errorCount.Add(1)
		return nil, fmt.Errorf("read file %q: %w", filePath, err)
	}
	return p.FindTablesBytes(data, f)
}

// FindFirst returns the first table accepted by f, or ErrNotFound.
func (p *Processor) FindFirst(htmlContent string, f Filter) (*Table, error) {
	tables, err := p.FindTables(htmlContent, f)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: no table matches %s", ErrNotFound, f)
	}
	return tables[0], nil
}

// FindTablesBatch extracts tables from several documents in parallel,
// bounded by WorkerPoolSize. Results keep the input order; a failed item
// leaves a nil entry and the first failure is reported.
func (p *Processor) FindTablesBatch(htmlContents []string, f Filter) ([][]*Table, error) {
	if p.closed.Load() {
		return nil, ErrProcessorClosed
	}
	return p.runBatch(len(htmlContents), nil, func(i int) ([]*Table, error) {
		return p.FindTables(htmlContents[i], f)
	})
}

// FindTablesBatchFiles is FindTablesBatch over HTML files.
func (p *Processor) FindTablesBatchFiles(filePaths []string, f Filter) ([][]*Table, error) {
	if p.closed.Load() {
		return nil, ErrProcessorClosed
	}
	return p.runBatch(len(filePaths), filePaths, func(i int) ([]*Table, error) {
		return p.FindTablesFromFile(filePaths[i], f)
	})
}

func (p *Processor) runBatch(n int, names []string, fn func(int) ([]*Table, error)) ([][]*Table, error) {
	if n == 0 {
		return [][]*Table{}, nil
	}

	results := make([][]*Table, n)
	errs := make([]error, n)
	var g errgroup.Group
	g.SetLimit(p.config.WorkerPoolSize)
	for i := range n {
		g.Go(func() error {
			results[i], errs[i] = fn(i)
			return nil
		})
	}
	_ = g.Wait()

	results, err := collectResults(results, errs, names)
	if err != nil {
		p.logger.Warn("batch extraction failed", zap.Int("items", n), zap.Error(err))
	}
	return results, err
}

func collectResults(results [][]*Table, errs []error, names []string) ([][]*Table, error) {
	var firstErr error
	successCount := 0
	failCount := 0

	for i, err := range errs {
		if err != nil {
			failCount++
			if firstErr == nil {
				if names != nil {
					firstErr = fmt.Errorf("%s: %w", names[i], err)
				} else {
					firstErr = fmt.Errorf("item %d: %w", i, err)
				}
			}
		} else {
			successCount++
		}
	}

	switch {
	case failCount == 0:
		return results, nil
	case successCount == 0:
		return results, fmt.Errorf("all %d items failed: %w", len(results), firstErr)
	default:
		return results, fmt.Errorf("partial failure (%d/%d succeeded): %w", successCount, len(results), firstErr)
	}
}

// GetStatistics returns processing statistics.
func (p *Processor) GetStatistics() Statistics {
	totalProcessed := p.stats.totalProcessed.Load()
	totalTime := time.Duration(p.stats.totalProcessTime.Load())
	var avgTime time.Duration
	if timed := p.stats.timedMisses.Load(); timed > 0 {
		avgTime = totalTime / time.Duration(timed)
	}
	return Statistics{
		TotalProcessed:     totalProcessed,
		CacheHits:          p.stats.cacheHits.Load(),
		CacheMisses:        p.stats.cacheMisses.Load(),
		ErrorCount:         p.stats.errorCount.Load(),
		TablesFound:        p.stats.tablesFound.Load(),
		AverageProcessTime: avgTime,
	}
}

// ClearCache clears the cache and resets cache and timing statistics.
func (p *Processor) ClearCache() {
	p.cache.Clear()
	p.stats.cacheHits.Store(0)
	p.stats.cacheMisses.Store(0)
	p.stats.totalProcessTime.Store(0)
	p.stats.timedMisses.Store(0)
}

// Close releases processor resources. Calls after the first are no-ops.
func (p *Processor) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.cache.Clear()
	_ = p.logger.Sync()
	return nil
}

// generateCacheKey hashes the whole content: a sampled key could hand one
// document's tables to another.
func (p *Processor) generateCacheKey(content string, f Filter) string {
	h := sha256.New()
	var flags byte
	if p.config.NormalizeWhitespace {
		flags |= 1 << 0
	}
	h.Write([]byte{flags})
	h.Write(f.cacheKey())
	h.Write(binary.LittleEndian.AppendUint64(nil, uint64(len(content))))
	io.WriteString(h, content)

	var buf [sha256.Size]byte
	return hex.EncodeToString(h.Sum(buf[:0]))
}
