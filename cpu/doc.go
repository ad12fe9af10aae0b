// Package cpu implements the decode and execute engine for a reduced 32-bit
// x86 style instruction set written in AT&T operand order.
//
// The machine has six 32-bit registers (%EAX, %EDX, %ECX, %ESP, %EBP and the
// program counter %EIP), a flat word-addressed data memory, and an
// instruction store holding one text line per 4-byte slot. Programs are run
// one line at a time by Tick until the END marker is reached.
//
// The Loader reads program text into a Program, normalizing whitespace and
// evaluating $(...) compile-time expressions.
package cpu
