//go:build stepperdebug

package player

// debugAsserts turns usage errors, which are otherwise logged, into panics.
const debugAsserts = true
