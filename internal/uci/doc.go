// Package uci drives an external chess engine over the UCI text protocol.
//
// A Process owns the engine subprocess and its stdio pipes. A Driver layers
// the protocol on top: handshake, option configuration, position setup, and
// search with score extraction. Each Process is exclusively owned by one
// goroutine for its entire lifetime; the package does no internal locking.
package uci
