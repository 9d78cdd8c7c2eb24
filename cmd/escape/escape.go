package main

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/willbeason/deep-mandelbrot/pkg/ppm"
	"github.com/willbeason/deep-mandelbrot/pkg/render"
	"github.com/willbeason/deep-mandelbrot/pkg/viewport"
)

const (
	outputFlag  = "output"
	formatFlag  = "format"
	verboseFlag = "verbose"
)

// format is the encoding of the rendered image.
type format string

const (
	formatPPM format = "ppm"
	formatPNG format = "png"
)

var _ pflag.Value = new(format)

func (f *format) String() string {
	return string(*f)
}

func (f *format) Set(s string) error {
	switch format(s) {
	case formatPPM, formatPNG:
		*f = format(s)
		return nil
	default:
		return fmt.Errorf("unknown format %q, want %q or %q", s, formatPPM, formatPNG)
	}
}

func (f *format) Type() string {
	return "format"
}

func mainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "escape [hres [vres [rmin [rmax [imin [imax [precision]]]]]]]",
		Short: "Render the Mandelbrot set at arbitrary precision",
		Long: `Render the Mandelbrot set over the rectangle [rmin, rmax] x [imin, imax]
of the complex plane, colored by escape time. Bounds are decimal strings and
are evaluated with the given number of bits of precision.`,
		Args: cobra.MaximumNArgs(7),
		RunE: runCmd,
	}

	// Bounds such as -1.5 would otherwise parse as shorthand flags.
	cmd.Flags().SetInterspersed(false)

	imageFormat := formatPPM
	cmd.Flags().StringP(outputFlag, "o", "-", "file to write the image to, or - for stdout")
	cmd.Flags().VarP(&imageFormat, formatFlag, "f", "image format: ppm or png")
	cmd.Flags().BoolP(verboseFlag, "v", false, "log progress to stderr")

	return cmd
}

func runCmd(cmd *cobra.Command, args []string) error {
	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	cfg, err := parseArgs(args)
	if err != nil {
		return err
	}

	logger := log.New(io.Discard, "", log.LstdFlags)
	verbose, err := cmd.Flags().GetBool(verboseFlag)
	if err != nil {
		return err
	}
	if verbose {
		logger.SetOutput(cmd.ErrOrStderr())
	}

	imageFormat := cmd.Flags().Lookup(formatFlag).Value.String()

	outPath, err := cmd.Flags().GetString(outputFlag)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	logger.Printf("rendering %s as %s", cfg, imageFormat)
	start := time.Now()

	err = write(cmd.Context(), cfg, format(imageFormat), out)
	if err != nil {
		return err
	}

	logger.Printf("rendered in %s", time.Since(start))

	return nil
}

func write(ctx context.Context, cfg *viewport.Config, f format, out io.Writer) error {
	switch f {
	case formatPNG:
		iw := render.NewImageWriter(cfg.HRes, cfg.VRes)
		err := render.Render(ctx, cfg, iw)
		if err != nil {
			return err
		}
		return png.Encode(out, iw.Img)
	default:
		w := ppm.NewWriter(out, cfg.HRes, cfg.VRes)
		err := w.WriteHeader()
		if err != nil {
			return err
		}
		err = render.Render(ctx, cfg, w)
		if err != nil {
			return err
		}
		return w.Flush()
	}
}

// parseArgs fills in defaults for any trailing arguments that are missing.
func parseArgs(args []string) (*viewport.Config, error) {
	hres, vres := viewport.DefaultHRes, viewport.DefaultVRes
	bounds := []string{viewport.DefaultRMin, viewport.DefaultRMax, viewport.DefaultIMin, viewport.DefaultIMax}
	prec := uint(viewport.DefaultPrec)

	var err error
	if len(args) >= 1 {
		hres, err = parseInt("horizontal resolution", args[0])
		if err != nil {
			return nil, err
		}
	}
	if len(args) >= 2 {
		vres, err = parseInt("vertical resolution", args[1])
		if err != nil {
			return nil, err
		}
	}

	for i := 2; i < len(args) && i < 6; i++ {
		bounds[i-2] = args[i]
	}

	if len(args) >= 7 {
		p, err := parseInt("precision", args[6])
		if err != nil {
			return nil, err
		}
		if p < 0 {
			return nil, fmt.Errorf("%w: negative precision %d", viewport.ErrInvalidConfig, p)
		}
		prec = uint(p)
	}

	return viewport.Parse(hres, vres, bounds[0], bounds[1], bounds[2], bounds[3], prec)
}

func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", viewport.ErrInvalidConfig, name, s)
	}
	return n, nil
}

func main() {
	ctx := context.Background()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
