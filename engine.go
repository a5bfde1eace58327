// Package contractcore wires the Embedding Store, Case Retriever, LLM
// Gateway, Document Parser, Summarizer, Toxic-Clause Extractor,
// Ingestion Pipeline, Dispute Simulator, Tool Registry, and Agent
// Orchestrator into one Engine: a contract is uploaded once, producing
// a summary and a toxic-clause highlight list, and queried any number
// of times through a tool-using chat agent.
package contractcore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jihoonpark/contractcore/agent"
	"github.com/jihoonpark/contractcore/casedb"
	"github.com/jihoonpark/contractcore/clauseindex"
	"github.com/jihoonpark/contractcore/dispute"
	"github.com/jihoonpark/contractcore/ingest"
	"github.com/jihoonpark/contractcore/llm"
	"github.com/jihoonpark/contractcore/model"
	"github.com/jihoonpark/contractcore/parser"
	"github.com/jihoonpark/contractcore/session"
	"github.com/jihoonpark/contractcore/summarize"
	"github.com/jihoonpark/contractcore/tools"
	"github.com/jihoonpark/contractcore/toxic"
)

// Engine is the process-wide composition root.
type Engine struct {
	cfg Config

	Retriever    *casedb.CaseRetriever
	Gateway      *llm.Gateway
	FormatGW     *llm.Gateway
	Parser       *parser.DocumentParser
	Summarizer   *summarize.Summarizer
	Extractor    *toxic.Extractor
	Pipeline     *ingest.Pipeline
	Simulator    *dispute.Simulator
	Tools        *tools.Registry
	Orchestrator *agent.Orchestrator
	Sessions     *session.Store

	// ClauseIndex is the supplemental per-document structural index.
	// It stays nil when cfg.ClauseIndexPath is empty; Load opens it once
	// the corpus embedding dimension is known.
	ClauseIndex *clauseindex.Store
}

// New builds an Engine from cfg. It does not eagerly load the case
// corpus — callers must call Load before serving traffic.
func New(cfg Config) (*Engine, error) {
	chatProvider, err := llm.NewProvider(llm.Config{
		Provider: cfg.Chat.Provider, Model: cfg.Chat.Model, BaseURL: cfg.Chat.BaseURL, APIKey: cfg.Chat.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: chat provider: %v", ErrInvalidConfig, err)
	}
	embedProvider, err := llm.NewProvider(llm.Config{
		Provider: cfg.Embedding.Provider, Model: cfg.Embedding.Model, BaseURL: cfg.Embedding.BaseURL, APIKey: cfg.Embedding.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: embedding provider: %v", ErrInvalidConfig, err)
	}
	formatterProvider, err := llm.NewProvider(llm.Config{
		Provider: cfg.Formatter.Provider, Model: cfg.Formatter.Model, BaseURL: cfg.Formatter.BaseURL, APIKey: cfg.Formatter.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: formatter provider: %v", ErrInvalidConfig, err)
	}

	gw := llm.NewGateway(chatProvider, embedProvider)
	formatGW := llm.NewGateway(formatterProvider, embedProvider)
	if cfg.GatewayMaxAttempts > 0 {
		gw.MaxAttempts = cfg.GatewayMaxAttempts
		formatGW.MaxAttempts = cfg.GatewayMaxAttempts
	}

	retriever := casedb.NewCaseRetriever(cfg.CorpusPath, cfg.ArchivePath, gw)

	ocrClient := parser.NewOCRClient(parser.OCRConfig{BaseURL: cfg.OCR.BaseURL, APIKey: cfg.OCR.APIKey, Timeout: cfg.RequestTimeout})
	docParser := parser.NewDocumentParser(ocrClient, cfg.LocalParseFallback)

	summarizer := summarize.NewSummarizer(gw, cfg.SummaryPromptPath)
	extractor := toxic.NewExtractor(gw, retriever)
	pipeline := ingest.NewPipeline(docParser, summarizer, extractor)
	simulator := dispute.NewSimulator(docParser, gw, retriever)

	registry := tools.NewRegistry()
	tools.RegisterDefaults(registry, retriever, gw, docParser, simulator, nil)

	orchestrator := agent.NewOrchestrator(formatGW, registry, formatFormatterPrompt)

	return &Engine{
		cfg:          cfg,
		Retriever:    retriever,
		Gateway:      gw,
		FormatGW:     formatGW,
		Parser:       docParser,
		Summarizer:   summarizer,
		Extractor:    extractor,
		Pipeline:     pipeline,
		Simulator:    simulator,
		Tools:        registry,
		Orchestrator: orchestrator,
		Sessions:     session.NewStore(),
	}, nil
}

// formatFormatterPrompt is the default system prompt for the
// Formatter's plain-dialogue pass.
const formatFormatterPrompt = `You are a helpful assistant answering questions about a contract the user has uploaded. Be concise and plain-spoken.`

// Load loads the case corpus and its embedding archive, then opens the
// supplemental clause index (if configured) now that the corpus's
// embedding dimension is known. It must be called once before
// Ingest/Query handle traffic.
func (e *Engine) Load(ctx context.Context) error {
	if err := e.Retriever.Load(ctx); err != nil {
		return err
	}

	if e.cfg.ClauseIndexPath == "" {
		return nil
	}
	store, err := clauseindex.Open(e.cfg.ClauseIndexPath, e.Retriever.Dim())
	if err != nil {
		return fmt.Errorf("opening clause index: %w", err)
	}
	e.ClauseIndex = store
	return nil
}

// Ingest runs the full ingestion pipeline over one uploaded file. When a
// clause index is configured, it also (best-effort) indexes the
// document's clause structure for later cross-reference lookups; a
// failure there is logged and never aborts ingestion.
func (e *Engine) Ingest(ctx context.Context, path string) (model.IngestResult, error) {
	if e.ClauseIndex != nil {
		if text, err := e.Parser.Parse(ctx, path); err == nil {
			if err := e.ClauseIndex.IndexDocument(ctx, path, text, func(s string) ([]float32, error) {
				return e.Gateway.Embed(ctx, s)
			}); err != nil {
				slog.Warn("engine: clause index update failed", "path", path, "error", err)
			}
		}
	}
	return e.Pipeline.Run(ctx, path)
}

// Query routes one user query through the agent orchestrator.
func (e *Engine) Query(ctx context.Context, query, attachedFilePath string) agent.Response {
	return e.Orchestrator.Handle(ctx, query, attachedFilePath)
}
