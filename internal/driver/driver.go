package driver

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vityafx/serde/internal/attr"
	"github.com/vityafx/serde/internal/diagnostic"
	"github.com/vityafx/serde/internal/gen"
	"github.com/vityafx/serde/internal/shape"
)

// Driver orchestrates generation across independent type definitions.
type Driver struct {
	gen    *gen.Generator
	logger *zap.Logger
	// workers bounds concurrent per-type generation.
	workers int
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// WithWorkers bounds the number of types generated concurrently.
func WithWorkers(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.workers = n
		}
	}
}

// New creates a Driver emitting through the given generator.
func New(g *gen.Generator, opts ...Option) *Driver {
	d := &Driver{
		gen:     g,
		logger:  zap.NewNop(),
		workers: runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Result is the outcome of a multi-type run.
type Result struct {
	// Files of every type that generated cleanly, sorted by filename.
	Files []gen.GeneratedFile
	// Diagnostics of every type that failed.
	Diagnostics diagnostic.Diagnostics
}

// GenerateOne runs the pipeline for a single definition, stopping at the
// first diagnostic.
func (d *Driver) GenerateOne(ctx context.Context, def *shape.TypeDefinition) (*gen.GeneratedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := shape.Classify(def); err != nil {
		return nil, err
	}

	ann, err := attr.Resolve(def)
	if err != nil {
		return nil, err
	}

	file, err := d.gen.Generate(ann)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("generated artifacts",
		zap.String("type", def.Name),
		zap.String("file", file.Filename),
		zap.Int("bytes", len(file.Content)))

	return file, nil
}

// GenerateAll processes every definition, isolating failures per type. The
// returned error is non-nil only for infrastructure problems (such as a
// cancelled context); per-type failures land in Result.Diagnostics.
func (d *Driver) GenerateAll(ctx context.Context, defs []*shape.TypeDefinition) (*Result, error) {
	res := &Result{}

	var mu sync.Mutex

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(d.workers)

	for _, def := range defs {
		def := def
		grp.Go(func() error {
			file, err := d.GenerateOne(ctx, def)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if ctx.Err() != nil {
					return err
				}

				d.logger.Warn("type failed to generate",
					zap.String("type", def.Name),
					zap.Error(err))
				res.Diagnostics.Add(def.Name, err)

				return nil
			}

			res.Files = append(res.Files, *file)

			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(res.Files, func(i, j int) bool {
		return res.Files[i].Filename < res.Files[j].Filename
	})

	sort.Slice(res.Diagnostics.Errors, func(i, j int) bool {
		return res.Diagnostics.Errors[i].TypeName < res.Diagnostics.Errors[j].TypeName
	})

	d.logger.Info("generation finished",
		zap.Int("types", len(defs)),
		zap.Int("generated", len(res.Files)),
		zap.Int("failed", len(res.Diagnostics.Errors)))

	return res, nil
}
