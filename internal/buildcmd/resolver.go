// SPDX-License-Identifier: MPL-2.0

package buildcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/relbuild/relbuild/pkg/manifest"
)

// DefaultMaxParallel bounds ResolveAll when the resolver has no limit set.
const DefaultMaxParallel = 4

type (
	// Resolver loads project state from a filesystem and assembles pipelines.
	// It holds no per-call state and is safe for concurrent use.
	Resolver struct {
		fs          afero.Fs
		logger      *log.Logger
		maxParallel int
	}

	// Option configures a Resolver.
	Option func(*Resolver)

	// Resolution is the outcome for one project directory.
	Resolution struct {
		Dir      string
		Detected ScriptName
		Pipeline Pipeline
	}
)

// WithFs sets the filesystem. The default is the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(r *Resolver) { r.fs = fs }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithMaxParallel bounds how many directories ResolveAll handles at once.
func WithMaxParallel(n int) Option {
	return func(r *Resolver) { r.maxParallel = n }
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		fs:          afero.NewOsFs(),
		maxParallel: DefaultMaxParallel,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	if r.maxParallel < 1 {
		r.maxParallel = DefaultMaxParallel
	}
	return r
}

// Params gathers the inputs Assemble needs for dir. A malformed manifest is
// logged and treated as absent; only unexpected read failures are returned.
func (r *Resolver) Params(dir, override string) (Params, error) {
	m, err := manifest.Load(r.fs, dir)
	if err != nil {
		if !errors.Is(err, manifest.ErrInvalidManifest) {
			return Params{}, err
		}
		r.logger.Warn("ignoring malformed manifest", "dir", dir, "err", err)
		m = nil
	}

	hasMeta, err := afero.DirExists(r.fs, filepath.Join(dir, MetadataDir))
	if err != nil {
		return Params{}, fmt.Errorf("failed to probe %s: %w", MetadataDir, err)
	}

	return Params{
		WorkDir:        dir,
		Override:       override,
		Manifest:       m,
		HasMetadataDir: hasMeta,
	}, nil
}

// Resolve returns the pipeline for dir.
func (r *Resolver) Resolve(ctx context.Context, dir, override string) (Resolution, error) {
	select {
	case <-ctx.Done():
		return Resolution{}, fmt.Errorf("resolve canceled: %w", ctx.Err())
	default:
	}

	p, err := r.Params(dir, override)
	if err != nil {
		return Resolution{}, err
	}

	detected, _ := Detect(p.Manifest)
	pipeline := Assemble(p)
	r.logger.Debug("resolved pipeline",
		"dir", dir,
		"detected", detected,
		"override", override != "",
		"cleanup", p.HasMetadataDir,
		"steps", len(pipeline))

	return Resolution{Dir: dir, Detected: detected, Pipeline: pipeline}, nil
}

// ResolveAll resolves every directory concurrently. Results keep the order of
// dirs; the first error cancels the remaining work.
func (r *Resolver) ResolveAll(ctx context.Context, dirs []string, override string) ([]Resolution, error) {
	out := make([]Resolution, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxParallel)

	for i, dir := range dirs {
		g.Go(func() error {
			res, err := r.Resolve(gctx, dir, override)
			if err != nil {
				return fmt.Errorf("%s: %w", dir, err)
			}
			out[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
