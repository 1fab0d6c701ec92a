//go:build !stepperdebug

package player

const debugAsserts = false
