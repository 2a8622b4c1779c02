// Package scoring turns votes into reporter scores and reader trust updates.
package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// Policy names.
const (
	PolicySimple   = "simple"
	PolicyWeighted = "weighted"
	PolicyBlend    = "blend"
)

// DefaultBlendAlpha is the weighted share used by the blend policy.
const DefaultBlendAlpha = 0.5

// ErrUnknownPolicy is returned by ParsePolicy for unsupported names.
var ErrUnknownPolicy = errors.New("unknown weighting policy")

// Policy combines a reporter's unweighted and trust-weighted vote means into
// the consensus score.
type Policy interface {
	Name() string
	Combine(simple, weighted float64) float64
}

// Simple ignores reader trust.
type Simple struct{}

// Name implements Policy.
func (Simple) Name() string { return PolicySimple }

// Combine implements Policy.
func (Simple) Combine(simple, _ float64) float64 { return simple }

// Weighted uses the trust-weighted mean only.
type Weighted struct{}

// Name implements Policy.
func (Weighted) Name() string { return PolicyWeighted }

// Combine implements Policy.
func (Weighted) Combine(_, weighted float64) float64 { return weighted }

// Blend mixes both means: Alpha*weighted + (1-Alpha)*simple.
type Blend struct {
	Alpha float64
}

// Name implements Policy.
func (b Blend) Name() string { return fmt.Sprintf("%s(%.2f)", PolicyBlend, b.Alpha) }

// Combine implements Policy.
func (b Blend) Combine(simple, weighted float64) float64 {
	return b.Alpha*weighted + (1-b.Alpha)*simple
}

// ParsePolicy resolves a policy by name. alpha is used by blend only and must
// lie in [0, 1].
func ParsePolicy(name string, alpha float64) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicySimple:
		return Simple{}, nil
	case PolicyWeighted, "":
		return Weighted{}, nil
	case PolicyBlend:
		if alpha < 0 || alpha > 1 {
			return nil, fmt.Errorf("blend alpha must be between 0 and 1, got %g", alpha)
		}
		return Blend{Alpha: alpha}, nil
	default:
		return nil, fmt.Errorf("%w %q (use %s, %s or %s)", ErrUnknownPolicy, name, PolicySimple, PolicyWeighted, PolicyBlend)
	}
}
