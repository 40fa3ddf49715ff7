// Package dwt implements a multilevel discrete wavelet transform for
// orthogonal wavelets over periodized signals.
//
// Decomposition follows the pyramid algorithm: each level splits the
// running approximation into a half-length approximation and detail band
// via the analysis filter pair, shifted by two samples with periodic
// wrap-around. Odd-length inputs at any level are extended by repeating
// the last sample before the split and trimmed again on reconstruction,
// so arbitrary lengths round-trip exactly; nothing is truncated.
//
// Coefficient bands follow the coarse-to-fine convention: band 0 is the
// final approximation, band 1 the coarsest detail, band Levels() the
// finest.
package dwt
