// Package decode reads value documents into value graphs.
//
// A value document is structured YAML or CUE data that spells out a value
// graph. It is a fixture and interchange format for tools and tests, not a
// surface syntax for programs. The top level is a mapping from names to
// values; each value is written as:
//
//	x                      # a string scalar is an atom (NFC-normalized)
//	[a, b, c]              # a sequence is a proper list
//	null                   # null is the empty list
//	{cons: [a, b]}         # a single cons cell (allows improper lists)
//	{tag: "strg", bytes: "hi", children: [a]}   # any other node
//
// Every decoded node records the line and column it was written at. In YAML
// documents, anchors and aliases produce shared nodes.
package decode
