package loc

// DiagnosticCode identifies the precise kind of a diagnostic. Codes are
// grouped by the taxonomy of spec §7: lexical and syntax errors in the
// 1000s, semantic errors in the 2000s, import/module/config/plugin errors
// each in their own thousand, warnings in the 8000s, info/hint above that.
type DiagnosticCode int

const (
	ERROR DiagnosticCode = 1000

	// LexicalError
	ERROR_UNTERMINATED_STRING DiagnosticCode = 1001
	ERROR_INVALID_ESCAPE      DiagnosticCode = 1002
	ERROR_BAD_NUMBER          DiagnosticCode = 1003
	ERROR_UNKNOWN_MARKER      DiagnosticCode = 1004

	// SyntaxError
	ERROR_UNEXPECTED_TOKEN  DiagnosticCode = 1101
	ERROR_MISSING_BRACE     DiagnosticCode = 1102
	ERROR_MALFORMED_IMPORT  DiagnosticCode = 1103
	ERROR_MALFORMED_USE     DiagnosticCode = 1104
	ERROR_MALFORMED_SPECIAL DiagnosticCode = 1105

	// SemanticError
	ERROR_UNRESOLVED_SYMBOL      DiagnosticCode = 2001
	ERROR_KIND_MISMATCH          DiagnosticCode = 2002
	ERROR_ILLEGAL_SPECIALIZATION DiagnosticCode = 2003
	ERROR_DUPLICATE_DECLARATION  DiagnosticCode = 2004
	ERROR_MISSING_STYLE_VALUES   DiagnosticCode = 2005
	ERROR_DELETE_TARGET_MISSING  DiagnosticCode = 2006
	ERROR_INSERT_TARGET_MISSING  DiagnosticCode = 2007
	ERROR_NAMESPACE_COLLISION    DiagnosticCode = 2008

	// ImportError
	ERROR_IMPORT_NOT_FOUND DiagnosticCode = 3001
	ERROR_IMPORT_CYCLE     DiagnosticCode = 3002
	ERROR_IMPORT_DUPLICATE DiagnosticCode = 3003

	// ModuleError
	ERROR_MODULE_BAD_ARCHIVE     DiagnosticCode = 4001
	ERROR_MODULE_CHECKSUM        DiagnosticCode = 4002
	ERROR_MODULE_VERSION         DiagnosticCode = 4003
	ERROR_MODULE_UNSUPPORTED_VER DiagnosticCode = 4004

	// ConfigError
	ERROR_CONFIG_UNKNOWN_OPTION DiagnosticCode = 5001
	ERROR_CONFIG_ILLEGAL_RENAME DiagnosticCode = 5002

	// PluginError
	ERROR_PLUGIN_MISUSE DiagnosticCode = 6001

	WARNING                     DiagnosticCode = 8000
	WARNING_IMPORT_CYCLE        DiagnosticCode = 8001
	WARNING_NAMESPACE_COLLISION DiagnosticCode = 8002
	WARNING_DUPLICATE_IMPORT    DiagnosticCode = 8003
	WARNING_UNTERMINATED_ORIGIN DiagnosticCode = 8004

	INFO DiagnosticCode = 9000
	HINT DiagnosticCode = 9500
)
