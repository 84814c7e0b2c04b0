// Package stream drives the continuous read, resample, write cycle of a
// fixed-point sample pipe. Each iteration feeds the resampler one block of
// input when it asks for more, then drains one window of produced samples
// to the output endpoint.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/xid"

	"github.com/dudk/resampipe/dcblock"
	"github.com/dudk/resampipe/q15"
	"github.com/dudk/resampipe/sample"
)

// Resampler is the engine contract consumed by the stream. fir.FIR
// satisfies it.
type Resampler interface {
	// Full reports whether enough input is buffered to produce the next
	// output window. The stream skips reading while it holds.
	Full() bool
	// Push transfers ownership of a filled buffer to the engine.
	Push(*sample.Buffer)
	// Process fills out with newly produced samples and returns their
	// count. Zero while Full holds means the engine is stuck and the
	// stream aborts; zero otherwise means the buffered input fell short
	// of the next output sample.
	Process(out []int16) int
	// Close releases all engine-held resources, including queued buffers.
	Close() error
}

// Logger is a global interface for stream loggers.
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
}

// ErrPartialSample is returned if a read ends mid-sample.
var ErrPartialSample = errors.New("read ended mid-sample")

// ErrNoProgress is returned if the resampler produces no samples while
// reporting that it holds enough buffered input.
var ErrNoProgress = errors.New("resampler produced no samples")

// Stream pumps samples from a readable endpoint through the resampler to
// a writable endpoint. It is single-threaded, both endpoint calls block.
type Stream struct {
	uid        string
	resampler  Resampler
	pool       *sample.Pool
	blockDC    bool
	sampleRate int
	log        Logger
}

// Option provides a way to set functional parameters to stream.
type Option func(*Stream) error

// New creates a stream around the provided resampler and applies options.
func New(r Resampler, options ...Option) (*Stream, error) {
	if r == nil {
		return nil, errors.New("stream: resampler is required")
	}
	s := &Stream{
		uid:       xid.New().String(),
		resampler: r,
		pool:      sample.NewPool(sample.BlockSize),
		log:       defaultLogger,
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// WithDCBlocker enables DC blocking of produced samples.
func WithDCBlocker() Option {
	return func(s *Stream) error {
		s.blockDC = true
		return nil
	}
}

// WithLogger sets logger to stream. If this option is not provided,
// silent logger is used.
func WithLogger(l Logger) Option {
	return func(s *Stream) error {
		s.log = l
		return nil
	}
}

// WithSampleRate sets the input sample rate. It is informational and only
// used for logging.
func WithSampleRate(rate int) Option {
	return func(s *Stream) error {
		s.sampleRate = rate
		return nil
	}
}

// Run executes the stream until ctx is done or a fatal error occurs. The
// context is sampled once per completed iteration, an in-flight blocking
// read or write is not interrupted by it. Any endpoint failure ends the
// stream: a closing input is not a recoverable condition for a
// pass-through pipe.
func (s *Stream) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	var blocker *dcblock.Blocker
	if s.blockDC {
		blocker = dcblock.New()
	}
	readBytes := make([]byte, sample.BlockSize*q15.SampleWidth)
	window := make([]int16, sample.BlockSize)
	writeBytes := make([]byte, sample.BlockSize*q15.SampleWidth)

	s.log.Info(fmt.Sprintf("%v: streaming at input rate %d", s, s.sampleRate))
	for ctx.Err() == nil {
		if !s.resampler.Full() {
			buf := s.pool.Acquire()
			n, err := in.Read(readBytes[:buf.Capacity()*q15.SampleWidth])
			if n <= 0 {
				buf.Release()
				if err == nil {
					err = io.EOF
				}
				return fmt.Errorf("stream: read input: %w", err)
			}
			if n%q15.SampleWidth != 0 {
				buf.Release()
				return fmt.Errorf("stream: %d byte read: %w", n, ErrPartialSample)
			}
			s.log.Debug(fmt.Sprintf("%v: read %d bytes", s, n))
			buf.SetSamples(q15.DecodeSamples(buf.Data(), readBytes[:n]))
			s.resampler.Push(buf)
		}

		produced := s.resampler.Process(window)
		if produced == 0 {
			if s.resampler.Full() {
				return fmt.Errorf("stream: %w", ErrNoProgress)
			}
			// decimation consumed the block short of the next output
			// sample, go back to filling
			continue
		}
		if blocker != nil {
			blocker.Apply(window[:produced])
		}
		nb := q15.EncodeSamples(writeBytes, window[:produced])
		n, err := out.Write(writeBytes[:nb])
		if err != nil {
			return fmt.Errorf("stream: write output: %w", err)
		}
		if n != nb {
			return fmt.Errorf("stream: write output: %w", io.ErrShortWrite)
		}
		s.log.Debug(fmt.Sprintf("%v: wrote %d bytes", s, n))
	}
	s.log.Info(fmt.Sprintf("%v: stopped", s))
	return nil
}

// Convert stream to string.
func (s *Stream) String() string {
	return s.uid
}

type silentLogger struct{}

func (silentLogger) Debug(args ...interface{}) {}

func (silentLogger) Info(args ...interface{}) {}

var defaultLogger silentLogger
