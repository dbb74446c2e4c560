package schemaform

import "strings"

const defaultMaxRefDepth = 64

// DefaultDenyList names the bookkeeping properties the agent backend injects
// into every event and configuration schema. They are routing metadata and
// never user editable, so Parse drops them from the top level.
var DefaultDenyList = []string{
	"correlationId",
	"publisherGrainId",
	"publisherId",
	"routingKey",
	"causationId",
}

// Option configures Parse.
type Option func(*options)

type options struct {
	denied      map[string]struct{}
	maxRefDepth int
}

func newOptions(opts []Option) options {
	cfg := options{maxRefDepth: defaultMaxRefDepth}
	cfg.denied = denySet(DefaultDenyList)
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithDenyList replaces the default deny-list. Matching is case-insensitive.
func WithDenyList(names ...string) Option {
	return func(o *options) {
		o.denied = denySet(names)
	}
}

// WithDenied adds names to the active deny-list.
func WithDenied(names ...string) Option {
	return func(o *options) {
		for key := range denySet(names) {
			o.denied[key] = struct{}{}
		}
	}
}

// WithMaxRefDepth caps how many $ref hops a single branch may follow before
// degrading to a passthrough node.
func WithMaxRefDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxRefDepth = depth
		}
	}
}

func (o options) isDenied(name string) bool {
	_, ok := o.denied[strings.ToLower(name)]
	return ok
}

func denySet(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, name := range names {
		trimmed := strings.ToLower(strings.TrimSpace(name))
		if trimmed == "" {
			continue
		}
		out[trimmed] = struct{}{}
	}
	return out
}
