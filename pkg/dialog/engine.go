// Package dialog implements a turn-based dialog orchestration engine: a
// finite-state machine with intent-driven transitions, a slot
// validation/enrichment pipeline, chained action execution, and
// multi-strategy response generation.
package dialog

import (
	"context"
	"fmt"
	"time"

	"rudder/pkg/logx"
	"rudder/pkg/nlu"
)

// Fixed user-visible texts for error and fallback paths.
const (
	SystemErrorText   = "System Error: Invalid State Transition"
	AskReclassifyText = "I didn't quite get that. Could you clarify?"
	ConfusedText      = "I am confused."
)

// DefaultMaxActionHops bounds chained action execution within one turn. A
// flow graph where action states cycle into each other would otherwise loop
// forever; hitting the bound is reported as a configuration error.
const DefaultMaxActionHops = 8

// Observer receives engine events for metrics recording. All methods must be
// non-blocking.
type Observer interface {
	ObserveTurn(stateIn, stateOut, intent string, fallback bool, duration time.Duration)
	ObserveAction(action, result string, duration time.Duration)
}

// nopObserver is installed when the host configures no observer.
type nopObserver struct{}

func (nopObserver) ObserveTurn(_, _, _ string, _ bool, _ time.Duration) {}
func (nopObserver) ObserveAction(_, _ string, _ time.Duration)          {}

// Config assembles an Engine. States, StartState, and Predictor are
// mandatory; everything else has a usable default.
type Config struct {
	States     map[string]*State
	StartState string
	Predictor  nlu.Predictor
	Generator  nlu.Generator // optional: delegated-generation response strategy

	MaxActionHops int      // 0 = DefaultMaxActionHops
	Observer      Observer // optional: metrics recording
}

// Engine orchestrates one conversation turn end to end. The state table and
// registries are immutable after setup, so concurrent turns on different
// Contexts are safe; the host must serialize turns for a single Context.
type Engine struct {
	states     map[string]*State
	startState string

	predictor nlu.Predictor
	generator nlu.Generator

	actions    *ActionRegistry
	validators *ValidatorRegistry
	conditions *ConditionRegistry
	responses  *ResponseRegistry

	maxActionHops int
	observer      Observer
	logger        *logx.Logger
}

// NewEngine creates an engine over the given state table. It fails if the
// start state is missing from the table; deeper graph validation belongs to
// the flow loader.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Predictor == nil {
		return nil, fmt.Errorf("predictor is required")
	}
	if _, ok := cfg.States[cfg.StartState]; !ok {
		return nil, fmt.Errorf("%w: start state %q", ErrUnknownState, cfg.StartState)
	}

	maxHops := cfg.MaxActionHops
	if maxHops <= 0 {
		maxHops = DefaultMaxActionHops
	}
	observer := cfg.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	return &Engine{
		states:        cfg.States,
		startState:    cfg.StartState,
		predictor:     cfg.Predictor,
		generator:     cfg.Generator,
		actions:       NewActionRegistry(),
		validators:    NewValidatorRegistry(),
		conditions:    NewConditionRegistry(),
		responses:     NewResponseRegistry(),
		maxActionHops: maxHops,
		observer:      observer,
		logger:        logx.NewLogger("engine"),
	}, nil
}

// Actions returns the action registry for host registration.
func (e *Engine) Actions() *ActionRegistry { return e.actions }

// Validators returns the validator/enricher registry for host registration.
func (e *Engine) Validators() *ValidatorRegistry { return e.validators }

// Conditions returns the condition registry for host registration.
func (e *Engine) Conditions() *ConditionRegistry { return e.conditions }

// Responses returns the response registry for host registration.
func (e *Engine) Responses() *ResponseRegistry { return e.responses }

// StartState returns the configured start state id.
func (e *Engine) StartState() string { return e.startState }

// StateByID returns the state definition for an id.
func (e *Engine) StateByID(id string) (*State, bool) {
	s, ok := e.states[id]
	return s, ok
}

// StartSession creates a fresh context positioned at the start state.
func (e *Engine) StartSession(sessionID string) *Context {
	return NewContext(sessionID, e.startState)
}

// ProcessTurn runs one full turn: NLU, slot pipeline, transition resolution,
// chained action execution, and response generation. It appends exactly one
// history record and returns the rendered response. Errors are reserved for
// configuration faults (dangling state ids, action-chain cycles); every
// conversational failure resolves to user-visible text instead.
func (e *Engine) ProcessTurn(ctx context.Context, userInput string, c *Context) (string, error) {
	started := time.Now()
	e.logger.Debug("Processing turn %q in state %s", userInput, c.CurrentState)

	stateIn := c.CurrentState
	state, ok := e.states[c.CurrentState]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownState, c.CurrentState)
	}

	// A terminal state never consumes input as itself: reset to the start
	// state and process this same input as the first turn of a new
	// conversation.
	if state.Type == StateTerminal {
		c.CurrentState = e.startState
		state = e.states[e.startState]
		stateIn = c.CurrentState
	}

	// Landing here mid-chain: a previous turn transitioned into an action
	// state. Execute it immediately, no NLU involved.
	if state.Type == StateAction {
		response, err := e.runActionChain(ctx, state, c)
		if err != nil {
			return "", err
		}
		c.RecordTurn(userInput, stateIn, c.CurrentState, response, c.Slots)
		e.observer.ObserveTurn(stateIn, c.CurrentState, "", false, time.Since(started))
		return response, nil
	}

	prediction := e.runNLU(ctx, userInput, state)
	e.processSlots(state, c, prediction.Entities)

	nextState, found := e.resolveTransition(state, prediction.Intent, c)
	e.logger.Debug("Resolved transition: intent=%s next=%q", prediction.Intent, nextState)

	var response string
	var err error
	if found {
		next, ok := e.states[nextState]
		if !ok {
			return "", fmt.Errorf("%w: transition target %q from state %q", ErrUnknownState, nextState, state.ID)
		}

		c.PreviousState = c.CurrentState
		c.CurrentState = nextState

		if next.Type == StateAction {
			response, err = e.runActionChain(ctx, next, c)
			if err != nil {
				return "", err
			}
		} else {
			response = e.generateResponse(ctx, next, c)
		}
	} else {
		response = e.handleFallback(ctx, state, c)
	}

	c.RecordTurn(userInput, stateIn, c.CurrentState, response, c.Slots)
	e.observer.ObserveTurn(stateIn, c.CurrentState, prediction.Intent, !found, time.Since(started))
	return response, nil
}

// runNLU builds the extraction schema for the state and calls the predictor.
// Prediction failures degrade to the unknown intent so the turn continues
// into fallback handling instead of aborting.
func (e *Engine) runNLU(ctx context.Context, userInput string, state *State) nlu.Prediction {
	schema := e.buildSchema(state)
	prediction, err := e.predictor.Predict(ctx, userInput, schema)
	if err != nil {
		e.logger.Error("NLU prediction failed in state %s: %v", state.ID, err)
		return nlu.Prediction{Intent: nlu.IntentUnknown}
	}
	return prediction
}

// buildSchema derives the NLU extraction schema from a state definition:
// slot names with descriptions plus the permitted intent labels.
func (e *Engine) buildSchema(state *State) nlu.Schema {
	entities := make(map[string]string)
	for _, slot := range state.ExtractableSlots() {
		if spec, ok := state.SlotConfig[slot]; ok && spec.Description != "" {
			entities[slot] = spec.Description
			continue
		}
		entities[slot] = fmt.Sprintf("Extract the %s from the text", slot)
	}

	return nlu.Schema{
		Entities:         entities,
		Intents:          state.IntentLabels(),
		CurrentState:     state.ID,
		StateDescription: state.Description,
	}
}

// runActionChain executes an action state and follows result-code
// transitions, continuing while they land on further action states. The
// conversation advances at most maxActionHops states per turn; exceeding
// that is a detected configuration error.
func (e *Engine) runActionChain(ctx context.Context, state *State, c *Context) (string, error) {
	for hop := 0; ; hop++ {
		if hop >= e.maxActionHops {
			return "", fmt.Errorf("%w: %d hops ending at state %q", ErrActionChainTooLong, hop, state.ID)
		}
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("action chain canceled at state %q: %w", state.ID, err)
		}

		actionStarted := time.Now()
		result := "success" // Default
		out, err := e.actions.Execute(state.ActionName, c)
		if err != nil {
			e.logger.Error("Action %s failed: %v", state.ActionName, err)
			result = "error"
		} else if out != "" {
			result = out
		}
		e.observer.ObserveAction(state.ActionName, result, time.Since(actionStarted))

		nextState, ok := state.ResultTransitions[result]
		if !ok {
			// The context stays parked on the action state; the host
			// must intervene to unstick the conversation.
			e.logger.Error("No transition for action result %q in state %s", result, state.ID)
			return SystemErrorText, nil
		}

		next, ok := e.states[nextState]
		if !ok {
			return "", fmt.Errorf("%w: action result target %q from state %q", ErrUnknownState, nextState, state.ID)
		}

		c.PreviousState = c.CurrentState
		c.CurrentState = nextState

		if next.Type != StateAction {
			return e.generateResponse(ctx, next, c), nil
		}
		state = next
	}
}

// handleFallback handles a turn whose intent matched no transition rule.
func (e *Engine) handleFallback(ctx context.Context, state *State, c *Context) string {
	switch state.Fallback {
	case FallbackOutOfScope:
		oos, ok := e.states[OutOfScopeStateID]
		if !ok {
			e.logger.Warn("State %s requests oos fallback but %q is not defined", state.ID, OutOfScopeStateID)
			return ConfusedText
		}
		c.PreviousState = c.CurrentState
		c.CurrentState = OutOfScopeStateID
		return e.generateResponse(ctx, oos, c)
	case FallbackAskReclassify:
		return AskReclassifyText
	default:
		return ConfusedText
	}
}
