// Package assembler builds one markdown document from an ordered list of fragments.
//
// Every fragment is read, its inclusion directives are replaced by the wrapped
// content of the files they name, and the processed fragments are joined with a
// separator. The pipeline is linear and fail-fast:
//
//	read all fragments -> expand directives (rule order) -> join -> single write
//
// Directive paths resolve against Config.BaseDir. Inlined text is literal: it is
// never scanned for further directives. Nothing is written unless every fragment
// and every include target was read successfully, and the write itself is atomic,
// so a failed run leaves the previous output untouched.
package assembler
