package interfaces

import (
	"context"

	"orb-scanner/internal/types"
)

// DataSource supplies the current session's minute bars for a set of
// symbols. Symbols with no data are omitted from the map, never an error.
type DataSource interface {
	IntradayBars(ctx context.Context, symbols []string) (map[string][]types.Bar, error)
}
