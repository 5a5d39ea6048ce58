package dialog

import (
	"fmt"

	"rudder/pkg/logx"
	"rudder/pkg/nlu"
)

// ActionFunc is a side-effecting business function executed on entry to an
// action state. It may mutate Context slots (the primary way actions
// communicate results back for rendering) and returns a result code; an empty
// code defaults to "success".
type ActionFunc func(c *Context) (string, error)

// ValidatorFunc checks a raw extraction before it is written to the Context.
type ValidatorFunc func(candidates []nlu.Entity) bool

// EnricherFunc normalizes a raw text span into a typed value.
type EnricherFunc func(text string) (SlotValue, error)

// ConditionFunc gates a transition rule. A non-empty return is the actual
// next state (conditions are authorized to redirect); empty means the rule
// does not fire.
type ConditionFunc func(c *Context, targetState string) string

// ResponseFunc renders custom response text. Empty means fall through to the
// next rendering strategy.
type ResponseFunc func(c *Context) string

// ActionRegistry maps action names to business functions. A miss is the one
// registry failure that is fatal to the current turn path rather than
// defaulted.
type ActionRegistry struct {
	actions map[string]ActionFunc
}

// NewActionRegistry creates an empty action registry.
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{actions: make(map[string]ActionFunc)}
}

// Register adds an action, silently overwriting any previous registration.
func (r *ActionRegistry) Register(name string, fn ActionFunc) {
	r.actions[name] = fn
}

// Execute runs the named action against the context.
func (r *ActionRegistry) Execute(name string, c *Context) (string, error) {
	fn, ok := r.actions[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrActionNotFound, name)
	}
	return fn(c)
}

// ValidatorRegistry maps names to validators and enrichers. Both default
// permissively: an unregistered validator accepts, an unregistered enricher
// is the identity.
type ValidatorRegistry struct {
	validators map[string]ValidatorFunc
	enrichers  map[string]EnricherFunc
	logger     *logx.Logger
}

// NewValidatorRegistry creates an empty validator/enricher registry.
func NewValidatorRegistry() *ValidatorRegistry {
	return &ValidatorRegistry{
		validators: make(map[string]ValidatorFunc),
		enrichers:  make(map[string]EnricherFunc),
		logger:     logx.NewLogger("validators"),
	}
}

// RegisterValidator adds a validator, overwriting any previous registration.
func (r *ValidatorRegistry) RegisterValidator(name string, fn ValidatorFunc) {
	r.validators[name] = fn
}

// RegisterEnricher adds an enricher, overwriting any previous registration.
func (r *ValidatorRegistry) RegisterEnricher(name string, fn EnricherFunc) {
	r.enrichers[name] = fn
}

// Validate runs the named validator; unregistered names accept.
func (r *ValidatorRegistry) Validate(name string, candidates []nlu.Entity) bool {
	fn, ok := r.validators[name]
	if !ok {
		return true // Default valid
	}
	return fn(candidates)
}

// Enrich runs the named enricher against source text. Unregistered names and
// enricher failures both resolve to the raw text unchanged.
func (r *ValidatorRegistry) Enrich(name, text string) SlotValue {
	fn, ok := r.enrichers[name]
	if !ok {
		return TextValue(text)
	}
	value, err := fn(text)
	if err != nil {
		r.logger.Warn("Enricher %s failed on %q: %v", name, text, err)
		return TextValue(text)
	}
	return value
}

// ConditionRegistry maps names to transition conditions. An unregistered
// name logs and yields no transition.
type ConditionRegistry struct {
	conditions map[string]ConditionFunc
	logger     *logx.Logger
}

// NewConditionRegistry creates an empty condition registry.
func NewConditionRegistry() *ConditionRegistry {
	return &ConditionRegistry{
		conditions: make(map[string]ConditionFunc),
		logger:     logx.NewLogger("conditions"),
	}
}

// Register adds a condition, overwriting any previous registration.
func (r *ConditionRegistry) Register(name string, fn ConditionFunc) {
	r.conditions[name] = fn
}

// Check executes the condition function. The return is the next state id
// (which may differ from targetState) or empty if the condition does not
// authorize the transition.
func (r *ConditionRegistry) Check(name string, c *Context, targetState string) string {
	fn, ok := r.conditions[name]
	if !ok {
		r.logger.Warn("Condition %s not found", name)
		return ""
	}
	return fn(c, targetState)
}

// ResponseRegistry maps names to custom response generators. An unregistered
// name logs and falls through to the next rendering strategy.
type ResponseRegistry struct {
	responses map[string]ResponseFunc
	logger    *logx.Logger
}

// NewResponseRegistry creates an empty response registry.
func NewResponseRegistry() *ResponseRegistry {
	return &ResponseRegistry{
		responses: make(map[string]ResponseFunc),
		logger:    logx.NewLogger("responses"),
	}
}

// Register adds a response function, overwriting any previous registration.
func (r *ResponseRegistry) Register(name string, fn ResponseFunc) {
	r.responses[name] = fn
}

// Generate runs the named response function; empty output falls through.
func (r *ResponseRegistry) Generate(name string, c *Context) string {
	fn, ok := r.responses[name]
	if !ok {
		r.logger.Warn("Response function %s not found", name)
		return ""
	}
	return fn(c)
}
