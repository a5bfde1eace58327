package dispute

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/jihoonpark/contractcore/llm"
	"github.com/jihoonpark/contractcore/model"
	"github.com/jihoonpark/contractcore/toxic"
)

// topRelevantClauses is how many of the document's toxic clauses the
// select_clauses stage keeps for simulation.
const topRelevantClauses = 2

// topPrecedentCandidates is how many candidates the retrieve stage
// pulls per relevant clause before select_cases narrows to one.
const topPrecedentCandidates = 10

// reembedCharLimit bounds how much of a candidate precedent's text the
// select_cases stage re-embeds.
const reembedCharLimit = 1024

// SimulationPrompt is the system prompt for the simulate stage. The
// model is asked to role-play a short dispute conversation in the
// situation/user/agent triple the response regex expects.
const SimulationPrompt = `You are generating a short role-played dialogue that illustrates how a dispute over a specific contract clause might unfold between a contract party and a customer service agent.

Respond with exactly three sections, each on its own line, in this order:
상황: <one or two sentences describing the situation>
사용자: <what the party says>
상담원: <how the counterparty or customer service agent responds>`

// Parser parses a document into text. It mirrors ingest.Parser but is
// redeclared here so this package has no dependency on ingest.
type Parser interface {
	Parse(ctx context.Context, path string) (string, error)
}

// CaseFinder is the subset of casedb.CaseRetriever the simulator needs:
// a query-vector-based top-k lookup plus a raw embed call, since
// select_cases re-embeds clause and candidate text directly rather than
// going through a MostSimilar lookup.
type CaseFinder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	TopK(queryVector []float32, k int) ([]model.CaseMatch, error)
}

// Simulator holds the dependencies every stage closes over. It carries
// no per-request state — the contract path travels through
// model.AgentState.DocPath instead — so one Simulator is safe to share
// across concurrent Run calls for different callers/documents.
type Simulator struct {
	Parser  Parser
	Gateway *llm.Gateway
	Cases   CaseFinder
}

// NewSimulator builds a Simulator.
func NewSimulator(p Parser, gw *llm.Gateway, cases CaseFinder) *Simulator {
	return &Simulator{Parser: p, Gateway: gw, Cases: cases}
}

// Run executes all six stages in order over the given initial state.
func (s *Simulator) Run(ctx context.Context, initial model.AgentState) model.AgentState {
	return Run(ctx, initial,
		s.parseStage,
		s.extractStage,
		s.selectClausesStage,
		s.retrieveStage,
		s.selectCasesStage,
		s.simulateStage,
	)
}

// parseStage: if document_text is unset, invoke the parser against the
// per-call state.DocPath; else skip.
func (s *Simulator) parseStage(ctx context.Context, state model.AgentState) model.AgentState {
	if state.DocumentText != "" {
		return state
	}
	text, err := s.Parser.Parse(ctx, state.DocPath)
	if err != nil {
		return state.WithError(fmt.Errorf("parsing document: %w", err))
	}
	state.DocumentText = text
	return state
}

// extractStage: raw toxic-clause extraction only, no precedent attach —
// this deliberately uses toxic.ExtractRaw rather than an Extractor
// instance, since the simulator's own retrieve/select_cases stages do
// their own clause-to-precedent matching and must not share state with
// the full extraction path C7 uses.
func (s *Simulator) extractStage(ctx context.Context, state model.AgentState) model.AgentState {
	clauses, err := toxic.ExtractRaw(ctx, s.Gateway, state.DocumentText)
	if err != nil {
		return state.WithError(fmt.Errorf("extracting toxic clauses: %w", err))
	}
	state.ToxicClauses = clauses
	return state
}

// selectClausesStage: embed the user query, cosine-rank all toxic
// clauses by their text, keep the top N as relevant.
func (s *Simulator) selectClausesStage(ctx context.Context, state model.AgentState) model.AgentState {
	if len(state.ToxicClauses) == 0 {
		state.RelevantToxicClauses = nil
		return state
	}

	queryVec, err := s.Cases.Embed(ctx, state.Query)
	if err != nil {
		return state.WithError(fmt.Errorf("embedding query: %w", err))
	}

	type scored struct {
		clause model.RawToxicClause
		score  float64
	}
	ranked := make([]scored, len(state.ToxicClauses))
	for i, c := range state.ToxicClauses {
		vec, err := s.Cases.Embed(ctx, c.ToxicClause)
		if err != nil {
			return state.WithError(fmt.Errorf("embedding clause %d: %w", i, err))
		}
		ranked[i] = scored{clause: c, score: cosineLocal(vec, queryVec)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	n := topRelevantClauses
	if n > len(ranked) {
		n = len(ranked)
	}
	relevant := make([]model.RawToxicClause, n)
	for i := 0; i < n; i++ {
		relevant[i] = ranked[i].clause
	}
	state.RelevantToxicClauses = relevant
	return state
}

// retrieveStage: for each relevant clause, embed (query + " " + clause)
// and take the top-10 precedents.
func (s *Simulator) retrieveStage(ctx context.Context, state model.AgentState) model.AgentState {
	similar := make([][]model.CaseMatch, len(state.RelevantToxicClauses))
	for i, c := range state.RelevantToxicClauses {
		vec, err := s.Cases.Embed(ctx, state.Query+" "+c.ToxicClause)
		if err != nil {
			return state.WithError(fmt.Errorf("embedding clause+query %d: %w", i, err))
		}
		matches, err := s.Cases.TopK(vec, topPrecedentCandidates)
		if err != nil {
			return state.WithError(fmt.Errorf("retrieving precedents %d: %w", i, err))
		}
		similar[i] = matches
	}
	state.SimilarCases = similar
	return state
}

// selectCasesStage: for each clause's candidate set, re-embed each
// candidate's first 1024 characters, re-score against the query alone,
// pick the argmax, then format the winner through the gateway (spec.md
// §4.7 step 5: "pick the argmax; format it via C3") so simulateStage
// never feeds raw corpus text into the dispute payload.
func (s *Simulator) selectCasesStage(ctx context.Context, state model.AgentState) model.AgentState {
	queryVec, err := s.Cases.Embed(ctx, state.Query)
	if err != nil {
		return state.WithError(fmt.Errorf("embedding query: %w", err))
	}

	selected := make([]model.CaseMatch, len(state.SimilarCases))
	for i, candidates := range state.SimilarCases {
		if len(candidates) == 0 {
			continue
		}
		bestIdx, bestScore := -1, -1.0
		for j, cand := range candidates {
			text := cand.Case.Value
			if len(text) > reembedCharLimit {
				text = text[:reembedCharLimit]
			}
			vec, err := s.Cases.Embed(ctx, text)
			if err != nil {
				return state.WithError(fmt.Errorf("re-embedding candidate %d/%d: %w", i, j, err))
			}
			score := cosineLocal(vec, queryVec)
			if bestIdx == -1 || score > bestScore {
				bestIdx, bestScore = j, score
			}
		}
		best := candidates[bestIdx].Case
		formatted := toxic.FormatCase(ctx, s.Gateway, best.Value)
		selected[i] = model.CaseMatch{Case: best, Score: bestScore, Formatted: formatted}
	}
	state.SelectedCases = selected
	return state
}

// simulateStage: for each (clause, case) pair, role-play a dispute,
// using the formatted precedent summary selectCasesStage attached to
// each case rather than its raw corpus text.
func (s *Simulator) simulateStage(ctx context.Context, state model.AgentState) model.AgentState {
	sims := make([]string, 0, len(state.RelevantToxicClauses))
	for i, clause := range state.RelevantToxicClauses {
		var caseBlock string
		if i < len(state.SelectedCases) {
			caseBlock = state.SelectedCases[i].Formatted
		}
		payload := fmt.Sprintf("독소조항: %s\n이유: %s\n\n관련 판례: %s", clause.ToxicClause, clause.Reason, caseBlock)
		sim, err := s.Gateway.Complete(ctx, SimulationPrompt, payload, 1.0, 0)
		if err != nil {
			return state.WithError(fmt.Errorf("simulating dispute %d: %w", i, err))
		}
		sims = append(sims, sim)
	}
	state.Simulations = sims
	return state
}

// simulationRegex matches a role-played triple of 상황/사용자/상담원. The
// user and agent sections allow (but don't require) surrounding quotes.
var simulationRegex = regexp.MustCompile(`(?s)상황:\s*(.*?)\s*사용자:\s*"?(.*?)"?\s*상담원:\s*"?(.*?)"?$`)

// ParseSimulation extracts (situation, user, agent) from a simulation
// string. A non-match yields three empty strings rather than an error.
func ParseSimulation(s string) (situation, user, agent string) {
	m := simulationRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", ""
	}
	return m[1], m[2], m[3]
}

func cosineLocal(a, b []float32) float64 {
	var dot, na, nb float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, x := range a {
		na += float64(x) * float64(x)
	}
	for _, x := range b {
		nb += float64(x) * float64(x)
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
