// Package transport moves one command to the records server and brings one
// reply back.
//
// Ownership boundary:
// - connection lifecycle (dial, write, half-close, read, close)
// - transport failure classification (refused vs other)
// - single-flight request worker for interactive callers
//
// Framing: the server answers one reply per request and closes when the
// client closes. The client half-closes its write side after the command and
// reads until EOF, bounded by Options.MaxReplyBytes.
package transport
