package exact

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"hlsim/circuit"
)

// SweepPoint is the distance between a synthesized circuit and the target
// propagator for one step count.
type SweepPoint struct {
	Steps    int
	Distance float64
	Depth    int
}

// Synthesizer builds the circuit for a given number of Trotter steps.
type Synthesizer func(steps int) (*circuit.Circuit, error)

// Sweep synthesizes and scores one circuit per step count. Synthesis calls
// share no state, so they run concurrently (at most limit at a time, or
// unbounded when limit <= 0). Results keep the order of steps.
func Sweep(ctx context.Context, target *mat.CDense, steps []int, limit int, synth Synthesizer) ([]SweepPoint, error) {
	points := make([]SweepPoint, len(steps))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, n := range steps {
		i, n := i, n
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := synth(n)
			if err != nil {
				return errors.Wrapf(err, "synthesize %d steps", n)
			}
			u, err := CircuitUnitary(c)
			if err != nil {
				return errors.Wrapf(err, "unitary for %d steps", n)
			}
			points[i] = SweepPoint{Steps: n, Distance: Distance(u, target), Depth: c.Depth()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "sweep")
	}
	return points, nil
}
