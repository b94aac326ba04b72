// Package term answers one question for the CLI: is a given file
// descriptor an interactive terminal. The CLI uses this to decide
// whether diagnostic severities (spec §7's "level: file:line:col:
// message") get ANSI color. Each platform file implements IsTerminal
// itself since the underlying ioctl request number differs (and wasm
// has no terminal at all).
package term
