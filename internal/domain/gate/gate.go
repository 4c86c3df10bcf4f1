// Package gate decides whether a selected score may be submitted.
package gate

import (
	"github.com/okian/takure/internal/domain/version"
)

// Reason names the filter that rejected a submission.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonDisabled    Reason = "disabled"
	ReasonCardUnknown Reason = "card_unknown"
	ReasonNotListed   Reason = "card_not_whitelisted"
	ReasonVersus      Reason = "versus_play"
	ReasonGameOver    Reason = "game_over"
	ReasonGuest       Reason = "guest_play"
)

// Subject is what the filters look at.
type Subject struct {
	Generation version.Generation
	Card       string
	CardKnown  bool
	Versus     bool
	GameOver   bool
	Guest      bool
}

// Policy carries the configured switches.
type Policy struct {
	Enabled   bool
	Whitelist []string
}

// Verdict is the outcome of Evaluate. Reason is empty when the subject passed.
type Verdict struct {
	Reason Reason
}

// Passed reports whether every filter accepted the subject.
func (v Verdict) Passed() bool {
	return v.Reason == ReasonNone
}

// Filter rejects a subject by returning a non-empty reason.
type Filter func(p Policy, s Subject) Reason

// Gate runs its filters in order and stops at the first rejection.
type Gate struct {
	policy  Policy
	filters []Filter
}

// New creates a Gate with the standard filter chain.
func New(p Policy) *Gate {
	return &Gate{
		policy: p,
		filters: []Filter{
			enabled,
			cardKnown,
			cardListed,
			notVersus,
			notGameOver,
			notGuest,
		},
	}
}

// Evaluate applies the filter chain to s.
func (g *Gate) Evaluate(s Subject) Verdict {
	for _, f := range g.filters {
		if reason := f(g.policy, s); reason != ReasonNone {
			return Verdict{Reason: reason}
		}
	}
	return Verdict{}
}

func enabled(p Policy, _ Subject) Reason {
	if !p.Enabled {
		return ReasonDisabled
	}
	return ReasonNone
}

func cardKnown(_ Policy, s Subject) Reason {
	if !s.CardKnown {
		return ReasonCardUnknown
	}
	return ReasonNone
}

func cardListed(p Policy, s Subject) Reason {
	if len(p.Whitelist) == 0 {
		return ReasonNone
	}
	for _, card := range p.Whitelist {
		if card == s.Card {
			return ReasonNone
		}
	}
	return ReasonNotListed
}

// notVersus only applies to the legacy schema; later generations report
// versus plays as regular singles.
func notVersus(_ Policy, s Subject) Reason {
	if s.Generation == version.Legacy && s.Versus {
		return ReasonVersus
	}
	return ReasonNone
}

func notGameOver(_ Policy, s Subject) Reason {
	if s.GameOver {
		return ReasonGameOver
	}
	return ReasonNone
}

func notGuest(_ Policy, s Subject) Reason {
	if s.Guest {
		return ReasonGuest
	}
	return ReasonNone
}
