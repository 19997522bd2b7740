// Package batch evaluates many operations at once. It runs job files on one
// or more kernels and cross-checks their results, and it verifies a kernel
// against a reference on randomly generated operands.
package batch
