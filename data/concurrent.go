package data

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// readConcurrency bounds how many reads ReadMany keeps in flight.
const readConcurrency = 10

// ReadMany fetches several entries concurrently, one pipeline call per key.
// Missing keys are skipped rather than reported; the returned map holds
// only the entries that exist. The first hard failure cancels the rest.
func (s *Service) ReadMany(ctx context.Context, agentID string, keys []string) (map[string]DataEntry, error) {
	entries := make(map[string]DataEntry, len(keys))
	if len(keys) == 0 {
		return entries, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)

	var mu sync.Mutex
	for _, key := range keys {
		key := key
		g.Go(func() error {
			entry, err := s.ReadFull(ctx, agentID, key)
			if err != nil {
				return err
			}
			if entry == nil {
				return nil
			}
			mu.Lock()
			entries[key] = *entry
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}
