// Package service implements the game operations behind every transport.
//
// The service package implements:
//   - Game lifecycle (create from the standard position, a FEN, or a preset)
//   - The move application protocol (parse, resolve, SAN-encode, apply,
//     record) with all-or-nothing failure semantics
//   - Status derivation from the rules engine's outcome classification
//   - Process-wide serialization of mutations
//
// Concurrency:
//
// One readers-writer lock guards the whole registry for the full duration of
// every operation: reads (GetGame, LegalMoves) share it, mutations
// (CreateGame, DeleteGame, ApplyMove) hold it exclusively. Rules-engine work
// is CPU-bound, so nothing blocks while the lock is held. This serializes
// all mutations process-wide, which is sized for a modest number of
// concurrent games.
//
// Failure atomicity:
//
// ApplyMove mutates the session only after the move has been resolved
// against the rules engine and encoded to SAN. Any error before that point
// leaves the session exactly as it was: no history entry, no position
// change.
package service
