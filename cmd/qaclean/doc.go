// Command qaclean regroups a plain-text interview transcript into
// question/answer blocks separated by blank lines.
//
//	qaclean input.txt [output.txt]
//
// Without an output path the result is written to input_cleaned.txt.
package main
