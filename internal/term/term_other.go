//go:build !linux && !darwin

package term

// IsTerminal always reports false on platforms without an ioctl-based
// terminal check wired up (notably js/wasm, which has no terminal).
func IsTerminal(fd int) bool { return false }
