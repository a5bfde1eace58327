package contractcore

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration for the contract analysis engine.
type Config struct {
	// StorageDir controls where uploaded files are written. Defaults to
	// the current working directory. The clause cross-reference index is
	// placed by ClauseIndexPath, not by StorageDir.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// CorpusPath points at the case-law corpus — a JSON array of
	// {key, value} or, if it ends in .xlsx, a spreadsheet with
	// "key"/"value" header columns.
	CorpusPath string `json:"corpus_path" yaml:"corpus_path"`

	// ArchivePath points at the gob-encoded embedding archive paired
	// with CorpusPath. Rebuilt automatically if missing or stale.
	ArchivePath string `json:"archive_path" yaml:"archive_path"`

	// SummaryPromptPath points at the YAML prompt file (message/prefix
	// keys) used by the summarizer.
	SummaryPromptPath string `json:"summary_prompt_path" yaml:"summary_prompt_path"`

	// LLM providers, one config per logical role.
	Chat      LLMConfig `json:"chat" yaml:"chat"`
	Embedding LLMConfig `json:"embedding" yaml:"embedding"`
	Formatter LLMConfig `json:"formatter" yaml:"formatter"`

	// OCR configures the external document-parse service.
	OCR OCRConfigValues `json:"ocr" yaml:"ocr"`

	// LocalParseFallback opts into the ledongthuc/pdf local text
	// extractor when the OCR service is unavailable. Never enabled by
	// default — it is a development convenience, not a documented path.
	LocalParseFallback bool `json:"local_parse_fallback" yaml:"local_parse_fallback"`

	// GatewayMaxAttempts is the LLM Gateway's retry ceiling. 0 means the
	// gateway's own default (100).
	GatewayMaxAttempts int `json:"gateway_max_attempts" yaml:"gateway_max_attempts"`

	// RequestTimeout bounds each outbound OCR call. Chat and embedding
	// calls do not use it; their HTTP client has a fixed timeout.
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`

	// ListenAddr is the HTTP bind address.
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`

	// AuthToken, if set, is required as a Bearer token on API routes.
	AuthToken string `json:"auth_token" yaml:"auth_token"`

	// ClauseIndexPath is the SQLite file backing the supplemental
	// per-document clause cross-reference index. Empty disables it.
	ClauseIndexPath string `json:"clause_index_path" yaml:"clause_index_path"`
}

// LLMConfig configures a single LLM provider endpoint.
type LLMConfig struct {
	Provider string `json:"provider" yaml:"provider"` // ollama, lmstudio, openrouter, openai, groq, xai, gemini, custom
	Model    string `json:"model" yaml:"model"`
	BaseURL  string `json:"base_url" yaml:"base_url"`
	APIKey   string `json:"api_key" yaml:"api_key"`
}

// OCRConfigValues configures the external document-OCR client.
type OCRConfigValues struct {
	BaseURL string `json:"base_url" yaml:"base_url"`
	APIKey  string `json:"api_key" yaml:"api_key"`
}

// DefaultConfig returns a Config with sensible defaults for local
// development against Ollama-hosted models and the bundled prompt/corpus
// paths.
func DefaultConfig() Config {
	return Config{
		StorageDir:        ".",
		CorpusPath:        "data/cases.json",
		ArchivePath:       "data/cases.archive",
		SummaryPromptPath: "prompt/summarize_pdf.yaml",
		Chat: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.1:8b",
			BaseURL:  "http://localhost:11434",
		},
		Embedding: LLMConfig{
			Provider: "ollama",
			Model:    "nomic-embed-text",
			BaseURL:  "http://localhost:11434",
		},
		Formatter: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.1:8b",
			BaseURL:  "http://localhost:11434",
		},
		GatewayMaxAttempts: 100,
		RequestTimeout:     60 * time.Second,
		ListenAddr:         ":8080",
		ClauseIndexPath:    "data/clauses.db",
	}
}

// resolveStorageDir returns StorageDir as given (relative or absolute),
// defaulting to the current working directory when StorageDir is empty.
func (c *Config) resolveStorageDir() string {
	if c.StorageDir != "" {
		return c.StorageDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func (c *Config) uploadDir() string {
	return filepath.Join(c.resolveStorageDir(), "uploads")
}
