/*
Package compiler translates Jack classes into stack machine code.

Process of compilation

	Program Text ->
		lex ->
	Tokens ->
		front (symtab, vm) ->
	VM Code (Xxx.vm)

	Tokens ->
		format ->
	Token Trace (XxxT.xml)

	Tokens ->
		front (format) ->
	Parse Trace (Xxx.xml)

	Units ->
		check ->
	Program

Each file is one unit. Units share nothing but the call graph,
which check verifies after all of them are translated.
*/
package compiler
