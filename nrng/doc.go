// Package nrng generates multi-precision non-deterministic random numbers.
//
// A Generator conditions one or more true (hardware or OS level) entropy
// sources into a uniform random bit stream. Every registered source is
// health-tracked with sliding-window bit statistics and a conservative
// min-entropy estimate, raw samples are sized adaptively so that at least
// twice the requested output entropy is read, and a SHAKE-256 randomness
// extractor maps the biased raw bits to uniform output. The per-source
// results are XOR-combined, so the stream is as unpredictable as the least
// predictable participating source.
//
// Generators are safe for concurrent use. Sources only contend with draws
// against the same source.
package nrng

// Version of the generator implementation.
const Version = "1.0.0"
