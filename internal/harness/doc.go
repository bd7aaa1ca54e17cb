// Package harness runs YAML scenarios against the value graph, the ANF
// builder, the combinators and the store.
//
// A scenario names a set of values (a value document, see package decode),
// builds routines from step lists with an ir.Builder, and then checks
// assertions:
//
//   - match: run a combinator against a named value and check whether it
//     matches, and optionally how many elements it yields and how they
//     render
//   - hash_equal / hash_differs: compare the structural hashes of named
//     values
//   - store_roundtrip: write a value or routine to a fresh in-memory store
//     and read it back into a second pool
//
// Every scenario runs in its own pool and store. Run returns a Result with
// a textual dump of everything built; RunWithGolden compares that dump to
// testdata/golden/{name}.golden. Dumps contain no hashes, so they stay
// stable if the hash function changes.
package harness
