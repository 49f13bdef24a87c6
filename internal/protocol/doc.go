// Package protocol owns the text wire contract spoken with the records server.
//
// Ownership boundary:
// - command construction and argument checks
// - reply decoding into the closed Response set
// - row shape checks for DADOS payloads
package protocol
