// Package session provides the in-memory registry that owns every live
// game session.
//
// The Manager maps opaque string identifiers to sessions and guards the map
// with a readers-writer mutex, so concurrent lookups do not contend with
// each other. Identifiers are random UUIDs minted at registration time.
//
// Sessions live until they are explicitly deleted. There is no expiry and
// no background sweeping: a registered session stays retrievable for the
// lifetime of the process.
package session
