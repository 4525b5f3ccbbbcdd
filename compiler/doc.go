/*

Process of interpretation

Program Text ->
	parse ->
Program (ir) ->
	exec ->
Side effects on a Runtime (tape)

Process of compilation

Program Text ->
	parse ->
Program (ir) ->
	back ->
Emitter (compile: C, asm: listing, format: canonical text)

Program (ir) <->
	image ->
Program Image (.bfi)

*/
package compiler
