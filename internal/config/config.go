// Package config implements the per-compile configuration table of spec
// §4.8: option values (Apply), keyword aliases (ApplyNameAlias) and
// origin-type registration (RegisterOriginType) against an
// internal/token.KeywordTable. It does not read a [Configuration] block
// itself: internal/parser stores that block as an ast.ConfigurationDecl,
// and internal/dispatcher compiles with config.New() defaults and a
// default keyword table, so a block's options, aliases and origin types
// do not take effect during a compile.
package config

import (
	"fmt"

	"github.com/chtl-lang/chtl/internal/token"
)

// Config holds one compile's resolved options. The zero value matches
// spec defaults.
type Config struct {
	DebugMode           bool
	IndexInitialCount   int
	DisableNameGroup    bool
	AllowWildcardImport bool
	OutputSeparateFiles bool
	PreserveComments    bool
	DisableAutoNamespace bool

	// Named holds additional [Configuration] @Config Name { ... } blocks
	// loadable via [Import] @Config Name, keyed by name.
	Named map[string]*Config
}

// New returns a Config with spec-documented defaults.
func New() *Config {
	return &Config{
		IndexInitialCount: 0,
		Named:             map[string]*Config{},
	}
}

// recognizedOptions is the Option column of spec §4.8's table; anything
// else is an unknown-option ConfigError.
var recognizedOptions = map[string]bool{
	"DEBUG_MODE":            true,
	"INDEX_INITIAL_COUNT":   true,
	"DISABLE_NAME_GROUP":    true,
	"ALLOW_WILDCARD_IMPORT": true,
	// options controlling output splitting, comment preservation, and
	// implicit namespace generation.
	"OUTPUT_SEPARATE_FILES":  true,
	"PRESERVE_COMMENTS":      true,
	"DISABLE_AUTO_NAMESPACE": true,
}

// ErrUnknownOption is a ConfigError per spec §7.
type ErrUnknownOption struct{ Option string }

func (e *ErrUnknownOption) Error() string {
	return fmt.Sprintf("unknown configuration option %q", e.Option)
}

// ErrIllegalRename is a ConfigError raised when a [Name] subblock tries
// to rename a keyword the table doesn't recognize.
type ErrIllegalRename struct{ Keyword string }

func (e *ErrIllegalRename) Error() string {
	return fmt.Sprintf("cannot rename unknown keyword %q", e.Keyword)
}

// Apply sets a plain boolean/integer option by name, as read from a
// [Configuration] entry. Returns ErrUnknownOption for anything not in
// recognizedOptions.
func (c *Config) Apply(key, value string) error {
	if !recognizedOptions[key] {
		return &ErrUnknownOption{Option: key}
	}
	switch key {
	case "DEBUG_MODE":
		c.DebugMode = isTruthy(value)
	case "DISABLE_NAME_GROUP":
		c.DisableNameGroup = isTruthy(value)
	case "ALLOW_WILDCARD_IMPORT":
		c.AllowWildcardImport = isTruthy(value)
	case "OUTPUT_SEPARATE_FILES":
		c.OutputSeparateFiles = isTruthy(value)
	case "PRESERVE_COMMENTS":
		c.PreserveComments = isTruthy(value)
	case "DISABLE_AUTO_NAMESPACE":
		c.DisableAutoNamespace = isTruthy(value)
	case "INDEX_INITIAL_COUNT":
		n, err := parseInt(value)
		if err != nil {
			return err
		}
		c.IndexInitialCount = n
	}
	return nil
}

func isTruthy(v string) bool {
	return v == "true" || v == "1" || v == "yes"
}

func parseInt(v string) (int, error) {
	n := 0
	neg := false
	i := 0
	if i < len(v) && v[i] == '-' {
		neg = true
		i++
	}
	if i == len(v) {
		return 0, fmt.Errorf("not a number: %q", v)
	}
	for ; i < len(v); i++ {
		c := v[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("not a number: %q", v)
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}

// ApplyNameAlias renames a structural or contextual keyword in kt. When
// DisableNameGroup is set it does nothing and returns nil; otherwise it
// returns ErrIllegalRename if kt does not know keyword.
func (c *Config) ApplyNameAlias(kt *token.KeywordTable, keyword, alias string) error {
	if c.DisableNameGroup {
		return nil
	}
	if !kt.Alias(keyword, alias) {
		return &ErrIllegalRename{Keyword: keyword}
	}
	return nil
}

// RegisterOriginType registers a user-defined [Origin] tag, e.g. from a
// [OriginType] @Foo configuration subblock.
func (c *Config) RegisterOriginType(kt *token.KeywordTable, tag string) {
	kt.RegisterOriginType(tag)
}
