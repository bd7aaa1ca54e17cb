// Package ir provides the in-compiler representation of programs.
//
// This package holds the foundational types only. All other internal
// packages import ir; ir imports nothing internal except arena. This keeps
// the representation free of circular dependencies.
//
// # Values
//
// A program is read into a graph of Value nodes. Values are used as the AST
// exactly as they came in: there is no separate syntax tree. Each node has a
// 4-byte Tag, ordered children, a raw byte payload, and an optional source
// Position. Nodes are immutable after construction and may be shared.
//
// Identity is structural: Value.Hash folds the tag, the child count, the
// byte length, every child's hash and the bytes. Positions never take part,
// so the same fragment written in two places hashes identically.
//
// # ANF
//
// Lowering turns values into A-normal form. An Anf body is a sequence of
// bindings followed by a result; every Complex expression is bound to a
// fresh Local, and operands (Simple) are either such locals or quoted
// values. Builder produces Anf bodies incrementally.
//
// # Memory
//
// A Pool owns every Value node, every child and byte slice, and every
// finished binding sequence. Everything else borrows from it. Pools are not
// safe for concurrent mutation; use one pool per independently compiled
// unit.
package ir
