// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package upload

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel uploads within one submission.
const DefaultConcurrency = 4

// Adapter resolves every file field of a submission into URLs.
type Adapter struct {
	uploader    *Uploader
	concurrency int
	logger      *slog.Logger
	uploads     atomic.Int64
}

// NewAdapter creates an Adapter around u.
func NewAdapter(u *Uploader, concurrency int, logger *slog.Logger) *Adapter {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		uploader:    u,
		concurrency: concurrency,
		logger:      logger.With(slog.String("component", "upload_adapter")),
	}
}

// Uploads returns the number of upload requests issued so far.
func (a *Adapter) Uploads() int64 {
	return a.uploads.Load()
}

// Resolve uploads each local ref exactly once, in parallel, and returns
// the fields with every ref replaced by a Remote one. Remote refs are
// passed through without a request. It returns only after every upload
// finished; the first failure cancels the rest and is returned. Files
// already stored before the failure are not removed.
func (a *Adapter) Resolve(ctx context.Context, fields map[string]Files) (map[string]Files, error) {
	out := make(map[string]Files, len(fields))
	names := make([]string, 0, len(fields))
	for name, refs := range fields {
		out[name] = append(Files(nil), refs...)
		names = append(names, name)
	}
	sort.Strings(names)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	pending := 0
	for _, name := range names {
		name := name
		refs := out[name]
		for i, ref := range refs {
			i, ref := i, ref
			if !ref.IsLocal() {
				continue
			}
			pending++
			g.Go(func() error {
				a.uploads.Add(1)
				url, err := a.uploader.Upload(gctx, ref)
				if err != nil {
					return fmt.Errorf("uploading %s for %s: %w", ref.Name(), name, err)
				}
				refs[i] = Remote(url)
				return nil
			})
		}
	}

	if pending == 0 {
		return out, nil
	}
	if err := g.Wait(); err != nil {
		a.logger.Info("upload batch aborted", "pending", pending, "error", err)
		return nil, err
	}
	a.logger.Debug("upload batch resolved", "files", pending)
	return out, nil
}
