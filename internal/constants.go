// Package internal holds the tree-walking, caching and decoding helpers
// behind the htmltable package.
package internal

const (
	builderInitialSize = 256 // Initial capacity for pooled strings.Builder
	initialRowsCap     = 8   // Initial capacity for a table's row list
	initialCellsCap    = 4   // Initial capacity for a row's cell list

	charsetSampleSize = 1024 // Bytes inspected for a <meta> charset declaration
)
