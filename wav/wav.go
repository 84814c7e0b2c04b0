// Package wav adapts wav files to the byte-stream endpoints the streaming
// loop consumes. Reader streams 16-bit mono PCM data as little-endian
// bytes, Writer assembles such bytes back into a wav file.
package wav

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/dudk/resampipe/q15"
	"github.com/dudk/resampipe/sample"
)

// ErrUnsupportedBitDepth is returned when wav bit depth is not 16.
var ErrUnsupportedBitDepth = errors.New("only 16 bit depth is supported")

// ErrUnsupportedChannels is returned when wav holds more than one channel.
var ErrUnsupportedChannels = errors.New("only single channel wav is supported")

type (
	// Reader reads PCM data from a wav file as a raw sample byte stream.
	// This component cannot be reused for consequent runs.
	Reader struct {
		file    *os.File
		decoder *wav.Decoder
		ib      *audio.IntBuffer
		block   []int16
		pending []byte
	}

	// Writer saves a raw sample byte stream to a wav file.
	Writer struct {
		file    *os.File
		encoder *wav.Encoder
		carry   []byte
	}
)

// NewReader opens a wav file and validates its format.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		_ = file.Close()
		return nil, fmt.Errorf("wav: %v is not a valid wav file", path)
	}
	if decoder.BitDepth != 16 {
		_ = file.Close()
		return nil, ErrUnsupportedBitDepth
	}
	if decoder.Format().NumChannels != 1 {
		_ = file.Close()
		return nil, ErrUnsupportedChannels
	}
	return &Reader{
		file:    file,
		decoder: decoder,
		ib: &audio.IntBuffer{
			Format:         decoder.Format(),
			Data:           make([]int, sample.BlockSize),
			SourceBitDepth: 16,
		},
		block: make([]int16, sample.BlockSize),
	}, nil
}

// SampleRate returns the sample rate declared by the wav file.
func (r *Reader) SampleRate() int {
	return int(r.decoder.SampleRate)
}

// Read fills p with little-endian sample bytes. It returns io.EOF once
// the PCM data is exhausted.
func (r *Reader) Read(p []byte) (int, error) {
	if len(r.pending) == 0 {
		read, err := r.decoder.PCMBuffer(r.ib)
		if err != nil {
			return 0, err
		}
		if read == 0 {
			return 0, io.EOF
		}
		for i := 0; i < read; i++ {
			r.block[i] = int16(r.ib.Data[i])
		}
		buf := make([]byte, read*q15.SampleWidth)
		q15.EncodeSamples(buf, r.block[:read])
		r.pending = buf
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// Close closes the file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// NewWriter creates a wav file for 16-bit mono PCM at the given rate.
func NewWriter(path string, sampleRate int) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Writer{
		file:    file,
		encoder: wav.NewEncoder(file, sampleRate, 16, 1, 1),
	}, nil
}

// Write appends little-endian sample bytes to the wav file. A trailing
// partial sample is carried over to the next write.
func (w *Writer) Write(p []byte) (int, error) {
	data := p
	if len(w.carry) > 0 {
		data = append(w.carry, p...)
	}
	n := len(data) / q15.SampleWidth
	samples := make([]int16, n)
	q15.DecodeSamples(samples, data)
	w.carry = append(w.carry[:0], data[n*q15.SampleWidth:]...)

	ints := make([]int, n)
	for i, s := range samples {
		ints[i] = int(s)
	}
	err := w.encoder.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: w.encoder.SampleRate},
		Data:           ints,
		SourceBitDepth: 16,
	})
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close flushes the encoder and closes the file.
func (w *Writer) Close() error {
	if err := w.encoder.Close(); err != nil {
		return err
	}
	return w.file.Close()
}
