package flatten

import (
	"fmt"

	"github.com/arloliu/flatkit/errs"
	"github.com/arloliu/flatkit/format"
	"github.com/arloliu/flatkit/internal/options"
	"github.com/arloliu/flatkit/keypath"
)

// DefaultMaxDepth is the default traversal depth limit. Structures nested
// deeper than this fail with errs.ErrDepthExceeded, which is how
// non-terminating inputs are detected.
const DefaultMaxDepth = 64

// Config holds the flattening configuration shared by Flatten and Paths.
type Config struct {
	separator     string
	indexNotation string
	nullMarker    string
	emptyPolicy   format.EmptyPolicy
	emptySentinel string
	maxDepth      int

	renderer keypath.Renderer
}

func newConfig() *Config {
	return &Config{
		separator:     keypath.DefaultSeparator,
		indexNotation: keypath.DefaultIndexNotation,
		nullMarker:    "",
		emptyPolicy:   format.EmptyDrop,
		emptySentinel: "",
		maxDepth:      DefaultMaxDepth,
	}
}

// Option configures a Flattener.
type Option = options.Option[*Config]

// WithSeparator sets the key-path segment separator. Default ".".
func WithSeparator(sep string) Option {
	return options.New(func(c *Config) error {
		if sep == "" {
			return errs.ErrInvalidSeparator
		}
		c.separator = sep

		return nil
	})
}

// WithIndexNotation sets the sequence index template. The template must
// contain the "{i}" placeholder. Default "[{i}]".
//
// A non-injective template (one that lets an index render like part of a
// key) is accepted here; any resulting collision fails the flattening run
// with errs.ErrPathCollision.
func WithIndexNotation(tmpl string) Option {
	return options.New(func(c *Config) error {
		if _, err := keypath.NewRenderer(keypath.DefaultSeparator, tmpl); err != nil {
			return fmt.Errorf("%w: %q", errs.ErrInvalidIndexNotation, tmpl)
		}
		c.indexNotation = tmpl

		return nil
	})
}

// WithNullMarker sets the string emitted for null scalars. Default "".
// Null scalars always occupy their column; they are never dropped.
func WithNullMarker(marker string) Option {
	return options.NoError(func(c *Config) {
		c.nullMarker = marker
	})
}

// WithEmptyPolicy selects how empty sequences and mappings are handled:
// format.EmptyDrop (default) produces no key path; format.EmptySentinel
// emits one cell at the container's own path holding the sentinel string.
func WithEmptyPolicy(policy format.EmptyPolicy) Option {
	return options.New(func(c *Config) error {
		switch policy {
		case format.EmptyDrop, format.EmptySentinel:
			c.emptyPolicy = policy
			return nil
		default:
			return fmt.Errorf("invalid empty container policy: %v", policy)
		}
	})
}

// WithEmptySentinel sets the string emitted for empty containers under
// format.EmptySentinel. Default "".
func WithEmptySentinel(sentinel string) Option {
	return options.NoError(func(c *Config) {
		c.emptySentinel = sentinel
	})
}

// WithMaxDepth sets the traversal depth limit. Default DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return options.New(func(c *Config) error {
		if depth <= 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidMaxDepth, depth)
		}
		c.maxDepth = depth

		return nil
	})
}

// MaxDepth returns the configured traversal depth limit.
func (c *Config) MaxDepth() int {
	return c.maxDepth
}

// NullMarker returns the configured null marker.
func (c *Config) NullMarker() string {
	return c.nullMarker
}

// Renderer returns the key-path renderer built from the configuration.
func (c *Config) Renderer() keypath.Renderer {
	return c.renderer
}
