// Package syntax defines the host-language syntax tree the match compiler reads
// and produces.
//
// The tree covers the TypeScript subset that match sites are written in:
// expressions (including template literals, arrow functions and `as`
// ascriptions), the statements that surround clause blocks, and the type
// annotations the guard-chain form classifies.
//
// This package contains type definitions and tree utilities only. The parser
// and printer packages import syntax; syntax imports nothing internal.
//
// Nodes built by the compiler carry the zero Pos. Nodes produced by the parser
// carry the 1-based line and column of their first token.
package syntax
