// Package dispute implements the Dispute Simulator (spec.md C8): a
// linear state machine over model.AgentState that parses, extracts
// toxic clauses, selects the ones relevant to a user's query, retrieves
// precedent, and simulates a role-played dispute for each.
package dispute

import (
	"context"

	"github.com/jihoonpark/contractcore/model"
)

// Stage is one pure step of the state machine: it reads fields a prior
// stage wrote and returns a new state with its own fields populated.
// Stages never mutate the state they receive.
type Stage func(ctx context.Context, state model.AgentState) model.AgentState

// Run executes stages in order, short-circuiting as soon as one sets
// state.Error.
func Run(ctx context.Context, initial model.AgentState, stages ...Stage) model.AgentState {
	state := initial
	for _, stage := range stages {
		if state.HasError() {
			return state
		}
		state = stage(ctx, state)
	}
	return state
}
