package filter

type options struct {
	primed    bool
	zeroStart bool
}

// Option configures the recurrence filters.
type Option func(*options)

// WithPrimedState seeds the low-pass state with the first input sample
// (out[0] = in[0]) instead of zero.
func WithPrimedState() Option {
	return func(o *options) { o.primed = true }
}

// WithZeroedStart forces the first high-pass output to zero instead of
// in[0], so a constant offset at the start of a row does not leak through.
func WithZeroedStart() Option {
	return func(o *options) { o.zeroStart = true }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
