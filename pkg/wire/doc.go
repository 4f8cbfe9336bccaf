// Package wire defines the binary message format exchanged by MySensors
// nodes, repeaters and gateways.
//
// A message is at most 32 bytes on air: a fixed 7-byte header followed by
// up to 25 payload bytes.
//
//	[last][sender][destination][versionLength][commandAckPayload][type][sensor][payload...]
//
// # Header Bitfields
//
// Two header bytes pack several fields, least significant bit first:
//
//	versionLength:     bits 0-1 version, bit 2 signed, bits 3-7 payload length
//	commandAckPayload: bits 0-2 command, bit 3 request ack, bit 4 is ack, bits 5-7 payload type
//
// Setters mask values to the field width. Values that do not fit wrap
// silently; SetLength(40) stores 8.
//
// # Payload
//
// The payload is a single storage area interpreted according to the payload
// type field. Typed setters (SetFloat, SetUint16, ...) write the raw bytes,
// the length and the payload type together. Typed getters reinterpret the
// stored bytes as the requested kind without looking at the payload type, so
// callers that read a different kind than the one written get whatever those
// bytes mean as that kind. Use Value for a decode that honours the payload
// type.
//
// Multi-byte values are stored little-endian, matching the memory layout of
// the AVR and ARM radios that produce them.
//
// # Concurrency
//
// A Message has no internal locking. Build it in one goroutine, then share a
// Clone if other goroutines need to read it.
package wire
