package contractcore

import (
	"errors"

	"github.com/jihoonpark/contractcore/casedb"
	"github.com/jihoonpark/contractcore/llm"
	"github.com/jihoonpark/contractcore/parser"
	"github.com/jihoonpark/contractcore/tools"
)

// The sentinels below are declared in the package that actually returns
// them (tools, parser, casedb, llm) and re-exported here so callers of
// the Engine's public API can errors.Is/errors.As against one stable
// contractcore.ErrXxx identifier without reaching into a subpackage.
var (
	// ErrNoDocument is returned when a file-requiring tool is dispatched
	// without a document attached to the session.
	ErrNoDocument = tools.ErrNoDocument

	// ErrUnsupportedFormat is returned for unrecognized upload formats.
	ErrUnsupportedFormat = errors.New("contractcore: unsupported document format")

	// ErrParsingFailed is returned when the OCR service errors with no
	// local fallback configured, or when the local fallback also fails.
	// An empty parse result is not an error.
	ErrParsingFailed = parser.ErrParsingFailed

	// ErrEmbeddingFailed is returned when embedding generation fails.
	ErrEmbeddingFailed = casedb.ErrEmbeddingFailed

	// ErrLLMUnavailable is returned when the configured LLM provider is
	// unreachable after the gateway's retry budget is spent.
	ErrLLMUnavailable = llm.ErrUnavailable

	// ErrCorpusEmpty is returned when the case-law corpus has no entries.
	ErrCorpusEmpty = casedb.ErrCorpusEmpty

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("contractcore: invalid configuration")

	// ErrToolNotFound is returned when the agent orchestrator requests a
	// tool name the registry does not declare.
	ErrToolNotFound = tools.ErrToolNotFound
)
