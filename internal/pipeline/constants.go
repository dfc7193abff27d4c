package pipeline

// Default values for statement processing. Overridable via internal/config.
const (
	// DefaultModelName is the default Gemini model used for extraction
	// and remapping.
	DefaultModelName = "gemini-2.0-flash"

	// DefaultMaxPDFBytes is the size precondition on input documents;
	// larger files fail fast before any external call.
	DefaultMaxPDFBytes = 20 * 1024 * 1024

	// DefaultMaxHintChars caps the plaintext hint appended to the
	// extraction prompt.
	DefaultMaxHintChars = 12000

	// DefaultDocumentType is the default document type for uploaded files.
	DefaultDocumentType = "SECURITY_STATEMENT"

	// ParserVersion tags extraction runs with the prompt/schema revision.
	ParserVersion = "v2"
)
