package htmltable

import "sync"

var (
	defaultProcessor     *Processor
	defaultProcessorOnce sync.Once
)

// processor returns the shared Processor behind the package-level functions.
// It has no nesting limit, so well-formed input only fails to parse.
func processor() *Processor {
	defaultProcessorOnce.Do(func() {
		config := DefaultConfig()
		config.MaxDepth = 0
		defaultProcessor, _ = New(config)
	})
	return defaultProcessor
}

// FindTables extracts the tables of htmlContent accepted by f using default
// configuration.
func FindTables(htmlContent string, f Filter) ([]*Table, error) {
	return processor().FindTables(htmlContent, f)
}

// FindTablesBytes is FindTables for raw bytes in any supported encoding.
func FindTablesBytes(data []byte, f Filter) ([]*Table, error) {
	return processor().FindTablesBytes(data, f)
}

// FindFirst returns the first table of htmlContent.
func FindFirst(htmlContent string) (*Table, error) {
	return processor().FindFirst(htmlContent, All())
}

// FindByID returns the table whose id attribute equals id.
func FindByID(htmlContent, id string) (*Table, error) {
	return processor().FindFirst(htmlContent, WithID(id))
}

// FindByHeaders returns the first table whose header row contains every
// one of headers, in any order. With no headers it behaves like FindFirst.
func FindByHeaders(htmlContent string, headers ...string) (*Table, error) {
	return processor().FindFirst(htmlContent, WithHeaders(headers...))
}
