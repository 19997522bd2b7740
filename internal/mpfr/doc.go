// Package mpfr implements correctly rounded binary floating-point addition
// and multiplication for operands whose significand fits in one 64-bit word.
//
// A regular Float holds the value Sign × (D[0] / 2^64) × 2^Exp, where D[0]
// has its top bit set. Zero, infinity and NaN are encoded with reserved
// exponents (ExpZero, ExpInf, ExpNaN) and are handled before the word
// arithmetic runs.
//
// Every operation rounds to a caller-supplied precision under one of five
// rounding modes and returns a Ternary status: negative when the stored
// result is smaller in magnitude than the exact value, positive when it is
// larger, zero when it is exact. A result whose exponent leaves the
// configured Range is not stored; the operation reports a *RangeError
// instead, and the Env type layers an overflow/underflow policy and sticky
// exception flags on top of that.
//
// The arithmetic itself is provided by a Kernel. Several kernels exist
// (a math/bits kernel, a half-word kernel for 32-bit targets, a math/big
// reference kernel, and a GMP kernel behind the "gmp" build tag); Select
// binds one by name and Default picks one once from the detected hardware.
package mpfr
