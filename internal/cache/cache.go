package cache

import (
	"context"
	"strings"
)

// Views stores rendered pages. Entries are grouped by route so that a
// mutation can drop every variant (query, page) of a route at once.
//
// Every route has a generation that Invalidate advances. A reader takes the
// generation before rendering and hands it to Set, so a page rendered from
// data older than the last invalidation is never served.
type Views interface {
	Generation(ctx context.Context, route string) (int64, error)
	Get(ctx context.Context, route, key string) ([]byte, bool)
	Set(ctx context.Context, route, key string, gen int64, page []byte)
	Invalidate(ctx context.Context, route string) error
}

func normalize(part string) string {
	return strings.ToLower(strings.TrimSpace(part))
}
