// Package rngutil provides the shared building blocks of the true random
// number generator: bit masking, min-entropy estimation and a SHAKE-256
// based randomness extractor.
package rngutil
