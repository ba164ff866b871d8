// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/pdiddy/ssget/internal/filter"
	"github.com/pdiddy/ssget/pkg/types"
)

// BulkProgressFunc reports bulk progress after each matrix finishes,
// successfully or not.
type BulkProgressFunc func(done, total int)

// BulkDownload fetches every matrix matching f, at most maxFiles of them
// (non-positive means no cap), with up to cfg.Workers concurrent transfers.
// Individual failures are reported to the console and skipped; the returned
// slice holds the local paths of the matrices that succeeded.
func (d *Downloader) BulkDownload(ctx context.Context, f filter.Filter, format types.Format, destDir string, maxFiles int, progress BulkProgressFunc) ([]string, error) {
	matches, err := d.FindMatrices(ctx, f)
	if err != nil {
		return nil, err
	}
	if maxFiles > 0 && len(matches) > maxFiles {
		matches = matches[:maxFiles]
	}
	fmt.Fprintf(d.console, "Found %d matrices to download\n", len(matches))
	if len(matches) == 0 {
		return nil, nil
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		paths []string
		done  int
	)
	sem := make(chan struct{}, d.cfg.Workers)

	for _, m := range matches {
		wg.Add(1)
		go func(m types.MatrixRecord) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			path, err := d.Download(ctx, m.Group, m.Name, format, destDir, nil)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fmt.Fprintf(d.console, "Failed to download %s/%s: %v\n", m.Group, m.Name, err)
			} else {
				paths = append(paths, path)
			}
			done++
			if progress != nil {
				progress(done, len(matches))
			}
		}(m)
	}
	wg.Wait()

	return paths, nil
}
