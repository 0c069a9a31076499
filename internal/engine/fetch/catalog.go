package fetch

import (
	"context"
	"fmt"

	"github.com/rendis/skintap/internal/engine/catalog"
)

// PullCatalog downloads a catalog from rawURL, checks that it parses, and
// replaces dest atomically. dest is left untouched on any error.
func (c *Client) PullCatalog(ctx context.Context, rawURL, dest string) (*catalog.Catalog, error) {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("downloading catalog: %w", err)
	}

	cat, err := catalog.Install(dest, body)
	if err != nil {
		return nil, err
	}
	c.logger.Info("catalog updated", "entries", cat.Len(), "path", dest, "bytes", len(body))
	return cat, nil
}
