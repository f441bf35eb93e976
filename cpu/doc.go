// Package cpu implements the ARC processor core.
//
// The core consists of sixteen named 32-bit registers plus PC and FLAGS,
// a depth-1 instruction prefetch queue, a dedicated call stack for CALL/RET
// return addresses, and a fetch/decode/execute state machine. Register
// slots hold raw bit patterns; each instruction decides whether to read
// them as IEEE-754 floats or as unsigned integers.
//
// Step runs a whole fetch/decode/execute cycle atomically, so the
// intermediate pipeline stages are never observable from outside: the
// exposed states are only running, halted, and faulted.
//
// The instruction set is a closed set of 32-bit words. Encoding and
// decoding round-trip exactly, so the same operand model serves the
// assembler at build time and the decoder at run time.
package cpu
