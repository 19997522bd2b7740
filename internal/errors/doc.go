// Package apperrors defines the error types the mpcalc command reports and
// the process exit code each of them maps to.
//
// Every type wraps its cause where it has one, so errors.Is and errors.As
// see through it to the arithmetic errors of package mpfr.
package apperrors
