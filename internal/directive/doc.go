// Package directive recognizes inline inclusion directives in markdown fragments.
//
// A directive has the shape ::<keyword>='<relative-path>':: and asks the assembler
// to inline another file at that location. Keywords are grouped into Rules; each
// Rule owns one Wrapper that formats the inlined content (a fenced code block, or
// a fenced code block nested in a <details> disclosure widget).
//
// Rules are plain data so that adding or renaming a keyword never touches the
// scanning code. Keywords must be disjoint across rules.
package directive
