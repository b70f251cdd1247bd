package harness

// Trace event kinds.
const (
	EventInvocation = "invocation"
	EventCompletion = "completion"
)

// TraceEvent is one step of a scenario run. An invocation records the action,
// the clock reading and the step's args; the completion that follows records
// the outcome case and what the journal returned (points, streak, reaction
// counts).
type TraceEvent struct {
	Type   string                 `json:"type"`
	Action string                 `json:"action,omitempty"`
	At     string                 `json:"at,omitempty"`
	Args   map[string]interface{} `json:"args,omitempty"`
	Case   string                 `json:"case,omitempty"`
	Result map[string]interface{} `json:"result,omitempty"`
	Seq    int64                  `json:"seq"`
}

// Result is the outcome of one scenario. Pass is false as soon as any
// expectation or assertion fails; Errors says which.
type Result struct {
	Pass   bool         `json:"pass"`
	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`
}

// NewResult returns a passing Result with an empty trace.
func NewResult() *Result {
	return &Result{Pass: true, Trace: []TraceEvent{}, Errors: []string{}}
}

// AddError records a failure.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// AddInvocationTrace records action being invoked at the given clock reading.
func (r *Result) AddInvocationTrace(action, at string, args map[string]interface{}, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{Type: EventInvocation, Action: action, At: at, Args: args, Seq: seq})
}

// AddCompletionTrace records the outcome of the preceding invocation.
func (r *Result) AddCompletionTrace(outcome string, result map[string]interface{}, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{Type: EventCompletion, Case: outcome, Result: result, Seq: seq})
}
