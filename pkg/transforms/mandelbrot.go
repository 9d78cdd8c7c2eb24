package transforms

import (
	"math/big"

	"github.com/willbeason/deep-mandelbrot/pkg/viewport"
)

const (
	// TotalCols is the number of distinct color bands.
	TotalCols = 40

	// MaxIter is the iteration cap. A count of MaxIter means the point did not
	// escape.
	MaxIter = 10*TotalCols + 1

	// Bailout is the squared modulus beyond which an orbit has escaped.
	Bailout = 4
)

// Mandelbrot iterates z <- z*z + c from z = 0 at a fixed precision.
type Mandelbrot struct {
	Prec uint

	bailout *big.Float
}

func NewMandelbrot(prec uint) Mandelbrot {
	return Mandelbrot{
		Prec:    prec,
		bailout: new(big.Float).SetPrec(prec).SetInt64(Bailout),
	}
}

// state holds the working registers of a single escape-time evaluation.
type state struct {
	rz, iz   *big.Float
	rsq, isq *big.Float
	cross    *big.Float
	mag      *big.Float
}

func (m Mandelbrot) newState() state {
	f := func() *big.Float { return new(big.Float).SetPrec(m.Prec) }
	return state{
		rz: f(), iz: f(),
		rsq: f(), isq: f(),
		cross: f(),
		mag:   f(),
	}
}

// next performs one update step, leaving the squares of the previous z in
// rsq and isq.
func (s *state) next(c viewport.Point) {
	s.rsq.Mul(s.rz, s.rz)
	s.isq.Mul(s.iz, s.iz)

	s.cross.Mul(s.rz, s.iz)
	s.cross.Add(s.cross, s.cross)

	s.rz.Sub(s.rsq, s.isq)
	s.rz.Add(s.rz, c.Real)

	s.iz.Add(s.cross, c.Imag)
}

// Escape returns the number of completed update steps before the orbit of c
// escapes, or MaxIter if it never does.
//
// The bailout test at each step reads the squares computed by the previous
// update, so it lags the current z by one step.
func (m Mandelbrot) Escape(c viewport.Point) int {
	bailout := m.bailout
	if bailout == nil {
		bailout = new(big.Float).SetPrec(m.Prec).SetInt64(Bailout)
	}

	s := m.newState()

	count := 0
	for count < MaxIter {
		s.mag.Add(s.rsq, s.isq)
		if s.mag.Cmp(bailout) > 0 {
			break
		}

		s.next(c)
		count++
	}

	return count
}
