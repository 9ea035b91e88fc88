//go:build !debug

package debug

// Debug controls the expensive sanity assertions (division remainders,
// quotient tail checks). Enabled with the "debug" build tag.
const Debug = false
