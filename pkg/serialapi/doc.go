// Package serialapi implements the line protocol spoken between a
// MySensors gateway and its controller:
//
//	node-id;child-sensor-id;command;ack;type;payload\n
//
// Lines written by the gateway (uplink) carry the sender as node-id.
// Lines written by the controller (downlink) carry the destination.
// Format and Parse use the gateway's view: they render uplink lines and
// accept downlink lines. FormatDownlink and ParseUplink cover the
// controller's side.
//
// Payloads are rendered with wire.Message.Text. Parsed payloads are
// stored as strings, except for the stream command whose payload is
// hex-encoded binary.
package serialapi
