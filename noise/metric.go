package noise

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Metric selects the distance function used to rank feature points.
type Metric uint8

const (
	// Euclidean is sqrt(dx^2 + dy^2); gives round cells.
	Euclidean Metric = iota
	// Manhattan is |dx| + |dy|; gives diamond shaped cells.
	Manhattan
	// Chebyshev is max(|dx|, |dy|); gives square cells.
	Chebyshev
)

// ErrUnknownMetric is returned by ParseMetric.
var ErrUnknownMetric = errors.New("noise: unknown metric")

// Distance returns the distance between a and b. NaN and Inf propagate.
func (m Metric) Distance(a, b Vec2) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	switch m {
	case Manhattan:
		return math.Abs(dx) + math.Abs(dy)
	case Chebyshev:
		return math.Max(math.Abs(dx), math.Abs(dy))
	default:
		// Explicit conversions keep the compiler from fusing into FMA on
		// arm64 and friends, so results match amd64 bit for bit.
		return math.Sqrt(float64(dx*dx) + float64(dy*dy))
	}
}

func (m Metric) String() string {
	switch m {
	case Euclidean:
		return "euclidean"
	case Manhattan:
		return "manhattan"
	case Chebyshev:
		return "chebyshev"
	default:
		return fmt.Sprintf("Metric(%d)", uint8(m))
	}
}

// ParseMetric maps a config or flag value to a Metric. Matching is case
// insensitive and accepts a few common aliases.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "euclidean", "euclid", "l2", "":
		return Euclidean, nil
	case "manhattan", "taxicab", "l1":
		return Manhattan, nil
	case "chebyshev", "linf", "max":
		return Chebyshev, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}
