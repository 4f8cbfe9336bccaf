// Package transport carries MySensors radio frames over byte streams.
//
// The radio driver itself lives on the node. On the host side frames
// arrive over a serial bridge, a TCP gateway or a capture file, so this
// package provides the stream framing and a message-level connection on
// top of it.
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│   wire.Message (7B header +    │
//	│   0..25 payload bytes)         │
//	├────────────────────────────────┤
//	│   Length-Prefix Framing (1B)   │
//	├────────────────────────────────┤
//	│   Serial / TCP / file          │
//	└────────────────────────────────┘
//
// Frames never exceed wire.MaxMessageLength, so a single length byte is
// enough. A Conn rejects frames whose protocol version differs from
// wire.ProtocolVersion.
//
// Server accepts gateway connections over TCP; Dial connects to one,
// retrying with exponential backoff.
package transport
