package ui

// DisplayConfig holds configuration for UI rendering
type DisplayConfig struct {
	// Truncation limits
	MaxTitleLength         int
	MaxTitleLengthDetailed int
	MaxPreviewLines        int // list entries shown in the detail view
	MaxDiagnostics         int

	DefaultTerminalWidth int

	// Stats
	TopAuthors int

	// Tree settings
	TreeEnumerator TreeEnumStyle
}

// TreeEnumStyle defines tree line styles
type TreeEnumStyle int

const (
	TreeRounded TreeEnumStyle = iota // ╰─ style
	TreeDefault                      // └─ style
)

// DefaultConfig returns the default display configuration
func DefaultConfig() DisplayConfig {
	return DisplayConfig{
		MaxTitleLength:         40,
		MaxTitleLengthDetailed: 60,
		MaxPreviewLines:        5,
		MaxDiagnostics:         20,

		DefaultTerminalWidth: 120,

		TopAuthors: 10,

		TreeEnumerator: TreeRounded,
	}
}

// Global display configuration (can be overridden)
var Display = DefaultConfig()
