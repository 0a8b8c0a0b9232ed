// Package wav implements a bit-exact codec for the RIFF/WAVE PCM container
// plus file-level load/save helpers that bridge to the pcm sample buffer.
//
// Decoding tolerates unknown chunks; encoding always emits the canonical
// 44-byte header layout. Only uncompressed integer PCM is supported.
//
// Reference layout: http://soundfile.sapp.org/doc/WaveFormat/
package wav
