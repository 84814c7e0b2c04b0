// Command resampipe rationally resamples fixed-point samples passed
// between applications. It reads 16-bit little-endian samples from the
// input endpoint, resamples them by interpolate/decimate with a polyphase
// FIR and writes the result to the output endpoint. Endpoints are fifos,
// regular files, "-" for standard streams or wav files selected by their
// suffix.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/dudk/resampipe/fir"
	"github.com/dudk/resampipe/log"
	"github.com/dudk/resampipe/q15"
	"github.com/dudk/resampipe/stream"
	"github.com/dudk/resampipe/wav"
)

var (
	successExitCode = 0
	errorExitCode   = 1
)

type config struct {
	interpolate int
	decimate    int
	sampleRate  int
	filterFile  string
	dcBlocker   bool
	input       string
	output      string
}

// filterFile holds the coefficient file shape.
type filterFile struct {
	LPFCoeffs []float64 `json:"lpfCoeffs"`
}

func main() {
	os.Exit(run(os.Args[1:], log.GetLogger()))
}

func run(args []string, logger *logrus.Logger) int {
	c, err := parseArgs(args)
	if err != nil {
		logger.Error(err)
		return errorExitCode
	}

	coeffs, err := loadCoefficients(c.filterFile)
	if err != nil {
		logger.Errorf("cannot load filter coefficients from %v: %v", c.filterFile, err)
		return errorExitCode
	}

	in, inRate, err := openInput(c.input)
	if err != nil {
		logger.Errorf("bad input %v: %v", c.input, err)
		return errorExitCode
	}
	defer in.Close()
	if c.sampleRate == 0 {
		c.sampleRate = inRate
	}

	outRate := 0
	if c.sampleRate > 0 {
		outRate = c.sampleRate * c.interpolate / c.decimate
	}
	out, err := openOutput(c.output, outRate)
	if err != nil {
		logger.Errorf("bad output %v: %v", c.output, err)
		return errorExitCode
	}
	defer out.Close()

	f, err := fir.New(coeffs, c.interpolate, c.decimate)
	if err != nil {
		logger.Error(err)
		return errorExitCode
	}
	defer f.Close()

	options := []stream.Option{
		stream.WithLogger(logger),
		stream.WithSampleRate(c.sampleRate),
	}
	if c.dcBlocker {
		logger.Info("enabling DC blocking filter")
		options = append(options, stream.WithDCBlocker())
	}
	s, err := stream.New(f, options...)
	if err != nil {
		logger.Error(err)
		return errorExitCode
	}

	logger.Infof("resampling %d/%d from %d to %v",
		c.interpolate, c.decimate, c.sampleRate,
		float64(c.interpolate)/float64(c.decimate)*float64(c.sampleRate))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := s.Run(ctx, in, out); err != nil {
		logger.Errorf("failed during filtering: %v", err)
		return errorExitCode
	}
	return successExitCode
}

func parseArgs(args []string) (config, error) {
	c := config{}
	flags := flag.NewFlagSet("resampipe", flag.ExitOnError)
	flags.IntVar(&c.interpolate, "I", 1, "interpolation factor")
	flags.IntVar(&c.decimate, "D", 1, "decimation factor")
	flags.IntVar(&c.sampleRate, "S", 0, "input sample rate")
	flags.StringVar(&c.filterFile, "F", "", "filter coefficient JSON file")
	flags.BoolVar(&c.dcBlocker, "b", false, "enable DC blocking filter")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: resampipe -I [interpolate] -D [decimate] -F [filter file] -S [sample rate] [-b] [input] [output]\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return c, err
	}
	if c.decimate <= 0 {
		return c, fmt.Errorf("decimation factor must be a non-zero positive integer")
	}
	if c.interpolate <= 0 {
		return c, fmt.Errorf("interpolation factor must be a non-zero positive integer")
	}
	if c.filterFile == "" {
		return c, fmt.Errorf("need to specify a filter JSON file")
	}
	if flags.NArg() < 2 {
		return c, fmt.Errorf("missing source/destination file")
	}
	c.input = flags.Arg(0)
	c.output = flags.Arg(1)
	return c, nil
}

func loadCoefficients(path string) ([]int16, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f filterFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return q15.Coefficients(f.LPFCoeffs)
}

// openInput returns the readable endpoint and, for wav files, the sample
// rate declared by the file.
func openInput(path string) (io.ReadCloser, int, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), 0, nil
	}
	if strings.HasSuffix(path, ".wav") {
		r, err := wav.NewReader(path)
		if err != nil {
			return nil, 0, err
		}
		return r, r.SampleRate(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	return f, 0, nil
}

func openOutput(path string, sampleRate int) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	if strings.HasSuffix(path, ".wav") {
		return wav.NewWriter(path, sampleRate)
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
