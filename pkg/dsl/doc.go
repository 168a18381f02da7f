// Package dsl parses the stackgraph diagram language.
//
// A document is a sequence of statements separated by newlines or
// semicolons, optionally preceded by a header that sets the rank
// direction:
//
//	graph LR
//	a(Start) --> b[Work]
//	b -.-> |retry| a
//	b ==> c{Done}; c ~~ d
//
// A node is an identifier optionally followed, without whitespace, by a
// label in parentheses (rounded), brackets (square) or braces (triangle).
// An edge operator is an optional head marker, a line of two or more of
// the characters "-.=~", another optional head marker and an optional
// |label|. Head markers are "<", ">", "|" and ":". Statements may chain
// edges: "a --> b --> c" declares two edges. Comments start with "%%" or
// "#" and run to the end of the line.
//
// [Parse] returns a [Document]; [Document.Build] turns it into a
// [diagram.Model]. Malformed input yields a [*SyntaxError] carrying the
// line and column of the offending token.
package dsl
