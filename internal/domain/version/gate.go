package version

import "fmt"

// Gate checks identification against the supported model and builds.
type Gate struct {
	model            string
	blockedRevisions map[string]struct{}
	profiles         []Profile
	minExt, maxExt   uint64
}

// Option applies a configuration option to the Gate.
type Option func(*Gate)

// WithModel sets the expected model family.
func WithModel(model string) Option {
	return func(g *Gate) {
		if model != "" {
			g.model = model
		}
	}
}

// WithProfiles replaces the generation table.
func WithProfiles(profiles []Profile) Option {
	return func(g *Gate) {
		if len(profiles) > 0 {
			g.profiles = profiles
		}
	}
}

// NewGate creates a Gate for the DDR model family.
func NewGate(opts ...Option) *Gate {
	g := &Gate{
		model: "MDX",
		blockedRevisions: map[string]struct{}{
			"O": {},
			"X": {},
		},
		profiles: Profiles,
	}

	for _, opt := range opts {
		opt(g)
	}

	g.minExt, g.maxExt = g.profiles[0].MinExt, g.profiles[0].MaxExt
	for _, p := range g.profiles[1:] {
		g.minExt = min(g.minExt, p.MinExt)
		g.maxExt = max(g.maxExt, p.MaxExt)
	}

	return g
}

// Check returns the profile of a compatible build, or ErrUnsupported.
func (g *Gate) Check(info Info) (Profile, error) {
	if info.Model != g.model {
		return Profile{}, fmt.Errorf("%w: model %q", ErrUnsupported, info.Model)
	}
	if _, blocked := g.blockedRevisions[info.Revision]; blocked {
		return Profile{}, fmt.Errorf("%w: revision %q", ErrUnsupported, info.Revision)
	}
	if info.Ext < g.minExt || info.Ext > g.maxExt {
		return Profile{}, fmt.Errorf("%w: build %d outside %d-%d", ErrUnsupported, info.Ext, g.minExt, g.maxExt)
	}
	for _, p := range g.profiles {
		if info.Ext >= p.MinExt && info.Ext <= p.MaxExt {
			return p, nil
		}
	}
	// gaps between profiles
	return Profile{}, fmt.Errorf("%w: build %d has no schema profile", ErrUnsupported, info.Ext)
}

// Range returns the inclusive supported build range.
func (g *Gate) Range() (uint64, uint64) {
	return g.minExt, g.maxExt
}
