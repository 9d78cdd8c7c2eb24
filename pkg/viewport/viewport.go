package viewport

import (
	"errors"
	"fmt"
	"math/big"
)

const (
	DefaultHRes = 200
	DefaultVRes = 200

	DefaultRMin = "-1.5"
	DefaultRMax = "0.5"
	DefaultIMin = "-1"
	DefaultIMax = "1"

	DefaultPrec = 64

	// MinRes is the smallest accepted resolution along either axis.
	MinRes = 32

	MinPrec = 64
	MaxPrec = 4096
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// A Point is a location on the complex plane.
type Point struct {
	Real, Imag *big.Float
}

// Config is a rectangular region of the complex plane and the pixel grid laid
// over it. A Config must not be modified after Validate succeeds.
type Config struct {
	RMin, RMax *big.Float
	IMin, IMax *big.Float

	// HRes and VRes are the image width and height in pixels.
	HRes, VRes int

	// Prec is the mantissa precision, in bits, of every value derived from
	// the Config.
	Prec uint

	rDelta, iDelta *big.Float
}

// Parse builds a Config from decimal literals, rounding each bound to prec bits.
func Parse(hres, vres int, rmin, rmax, imin, imax string, prec uint) (*Config, error) {
	// Precision is checked first since it governs how the bounds are parsed.
	if err := validatePrec(prec); err != nil {
		return nil, err
	}

	bounds := [4]*big.Float{}
	for i, s := range [4]string{rmin, rmax, imin, imax} {
		f, err := parseFloat(s, prec)
		if err != nil {
			return nil, err
		}
		bounds[i] = f
	}

	return New(hres, vres, bounds[0], bounds[1], bounds[2], bounds[3], prec)
}

// New validates the passed values and returns the resulting Config.
func New(hres, vres int, rmin, rmax, imin, imax *big.Float, prec uint) (*Config, error) {
	c := &Config{
		RMin: rmin,
		RMax: rmax,
		IMin: imin,
		IMax: imax,
		HRes: hres,
		VRes: vres,
		Prec: prec,
	}

	err := c.Validate()
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Default returns the Config used when no arguments are given.
func Default() *Config {
	c, err := Parse(DefaultHRes, DefaultVRes, DefaultRMin, DefaultRMax, DefaultIMin, DefaultIMax, DefaultPrec)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks the Config's invariants and precomputes the per-pixel step
// sizes.
func (c *Config) Validate() error {
	if c.HRes < MinRes {
		return fmt.Errorf("%w: horizontal resolution %d is below %d", ErrInvalidConfig, c.HRes, MinRes)
	}
	if c.VRes < MinRes {
		return fmt.Errorf("%w: vertical resolution %d is below %d", ErrInvalidConfig, c.VRes, MinRes)
	}

	err := validatePrec(c.Prec)
	if err != nil {
		return err
	}

	for _, f := range []*big.Float{c.RMin, c.RMax, c.IMin, c.IMax} {
		if f == nil {
			return fmt.Errorf("%w: missing bound", ErrInvalidConfig)
		}
		if f.IsInf() {
			return fmt.Errorf("%w: infinite bound", ErrInvalidConfig)
		}
	}

	if c.RMin.Cmp(c.RMax) >= 0 {
		return fmt.Errorf("%w: real bounds [%s, %s] are empty", ErrInvalidConfig, c.RMin.String(), c.RMax.String())
	}
	if c.IMin.Cmp(c.IMax) >= 0 {
		return fmt.Errorf("%w: imaginary bounds [%s, %s] are empty", ErrInvalidConfig, c.IMin.String(), c.IMax.String())
	}

	c.rDelta = c.delta(c.RMin, c.RMax, c.HRes)
	c.iDelta = c.delta(c.IMin, c.IMax, c.VRes)

	return nil
}

// Point returns the plane coordinate of pixel column x and row y. Row 0 is the
// top of the image, at IMax.
func (c *Config) Point(x, y int) Point {
	if c.rDelta == nil {
		panic("viewport: Point called on unvalidated Config")
	}

	re := c.NewFloat().SetInt64(int64(x))
	re.Mul(re, c.rDelta)
	re.Add(c.RMin, re)

	im := c.NewFloat().SetInt64(int64(y))
	im.Mul(im, c.iDelta)
	im.Sub(c.IMax, im)

	return Point{Real: re, Imag: im}
}

// NewFloat returns a zero value with the Config's precision.
func (c *Config) NewFloat() *big.Float {
	return new(big.Float).SetPrec(c.Prec)
}

func (c *Config) String() string {
	return fmt.Sprintf("%dx%d re=[%s, %s] im=[%s, %s] prec=%d",
		c.HRes, c.VRes,
		c.RMin.Text('g', 20), c.RMax.Text('g', 20),
		c.IMin.Text('g', 20), c.IMax.Text('g', 20),
		c.Prec)
}

// delta is (hi - lo) / n.
func (c *Config) delta(lo, hi *big.Float, n int) *big.Float {
	d := c.NewFloat().Sub(hi, lo)
	return d.Quo(d, c.NewFloat().SetInt64(int64(n)))
}

func validatePrec(prec uint) error {
	if prec < MinPrec || prec > MaxPrec {
		return fmt.Errorf("%w: precision %d is outside [%d, %d]", ErrInvalidConfig, prec, MinPrec, MaxPrec)
	}
	return nil
}

func parseFloat(s string, prec uint) (*big.Float, error) {
	f, _, err := new(big.Float).SetPrec(prec).Parse(s, 10)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidConfig, s)
	}
	if f.IsInf() {
		return nil, fmt.Errorf("%w: %q is not finite", ErrInvalidConfig, s)
	}
	return f, nil
}
