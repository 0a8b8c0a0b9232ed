// Package pcm converts between raw interleaved integer PCM bytes and the
// per-channel normalized float representation the denoising pipeline
// operates on. The supported sample encodings form a closed set (Encoding);
// the conversion rule for a stream is selected once from its Format.
package pcm
