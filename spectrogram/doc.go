// Package spectrogram provides a read-only view over a dense single-dish
// spectrogram: power samples laid out row-major as time rows by frequency
// channel columns.
//
// The view borrows the caller's buffer. It performs no copy and takes no
// ownership; the buffer must stay alive and unmodified for the duration of
// any detection run that reads it.
package spectrogram
