package classifier

import (
	"context"
	"io"
	"log/slog"

	"github.com/fenilsonani/declutter/internal/catalog"
)

// NameClassifier is the external classifier collaborator: it receives file
// names only (no paths, no content) and returns a name-to-category mapping.
// Implementations may return partial or empty maps; missing names fall back
// to the local extension table.
type NameClassifier interface {
	ClassifyNames(ctx context.Context, names []string) (map[string]catalog.Category, error)
}

// Resolver decides a category for every record
type Resolver struct {
	rules  []Rule
	remote NameClassifier
	logger *slog.Logger
}

// Option customizes the resolver.
type Option func(*Resolver)

// WithLogger sets the resolver's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a Resolver. remote may be nil; classification then
// relies on rules and the extension table alone.
func NewResolver(rules []Rule, remote NameClassifier, opts ...Option) *Resolver {
	r := &Resolver{
		rules:  rules,
		remote: remote,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve assigns a category to every record in place. Rules run first;
// records they leave Unknown go to the external classifier as one batch of
// names; anything still unresolved (including a failed or partial remote
// response) gets the extension fallback. The only error returned is a
// context cancellation.
func (r *Resolver) Resolve(ctx context.Context, records []*catalog.FileRecord) error {
	unknown := make([]*catalog.FileRecord, 0, len(records))
	for _, record := range records {
		if category, ok := ApplyRules(r.rules, record); ok {
			record.Category = category
			continue
		}
		unknown = append(unknown, record)
	}

	if len(unknown) == 0 {
		return ctx.Err()
	}

	remote := r.classifyRemote(ctx, unknown)
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, record := range unknown {
		if category, ok := remote[record.Name]; ok && record.Category == catalog.CategoryUnknown {
			record.Category = category
			continue
		}
		if record.Category == catalog.CategoryUnknown {
			record.Category = FallbackCategory(record.Name)
		}
	}
	return nil
}

// Reclassify re-runs the remote classifier over an explicit subset. With
// force false, records whose category was set manually are left alone;
// with force true the remote result overwrites whatever was there.
// Remote failures degrade to the extension table, same as Resolve.
func (r *Resolver) Reclassify(ctx context.Context, records []*catalog.FileRecord, force bool) error {
	eligible := make([]*catalog.FileRecord, 0, len(records))
	for _, record := range records {
		if !force && record.ManuallySet {
			continue
		}
		eligible = append(eligible, record)
	}
	if len(eligible) == 0 {
		return ctx.Err()
	}

	remote := r.classifyRemote(ctx, eligible)
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, record := range eligible {
		if category, ok := remote[record.Name]; ok {
			record.Category = category
		} else {
			record.Category = FallbackCategory(record.Name)
		}
		record.ManuallySet = false
	}
	return nil
}

// classifyRemote invokes the external classifier and swallows its errors:
// a failed call is recovered locally and never surfaced to the caller.
func (r *Resolver) classifyRemote(ctx context.Context, records []*catalog.FileRecord) map[string]catalog.Category {
	if r.remote == nil {
		return nil
	}

	names := make([]string, len(records))
	for i, record := range records {
		names[i] = record.Name
	}

	mapping, err := r.remote.ClassifyNames(ctx, names)
	if err != nil {
		r.logger.Warn("external classification failed, using extension fallback",
			"files", len(names), "error", err)
		return nil
	}

	// Drop labels outside the closed category set.
	for name, category := range mapping {
		if !category.Valid() {
			delete(mapping, name)
		}
	}
	return mapping
}
