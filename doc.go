/*
Package resampipe streams fixed-point samples between byte-stream
endpoints, changing the sample rate by a rational factor on the way
through.

Concept

The pipeline has three stages:

	a readable endpoint - the origin of samples;
	the resampler with an optional DC blocking filter;
	a writable endpoint - the destination of samples.

Samples are 16-bit little-endian fixed-point scalars. The stream package
drives the cycle: while the resampler asks for more input, a buffer is
read from the input endpoint and pushed into it; every iteration one
window of produced samples is drained to the output endpoint. Buffers are
reference-counted and recycled by the sample package.

The fir package implements the resampler: a polyphase FIR filter bank in
Q.15 arithmetic. The dcblock package removes the zero-frequency component
with a leaky-integrator differentiator.

Execution

	coeffs, err := q15.Coefficients(taps)
	f, err := fir.New(coeffs, interpolate, decimate)
	s, err := stream.New(f, stream.WithDCBlocker())
	err = s.Run(ctx, in, out)

Run blocks until the context is cancelled or an endpoint fails. Endpoint
failures are fatal: resampipe is a pass-through pipe tool, not a service
that retries.

The resampipe command wires fifos, files or wav files to the pipeline.
*/
package resampipe
