package agent

// DecisionKind discriminates the closed set of mediator outcomes.
type DecisionKind int

const (
	// DecisionIgnore means the event was out of scope: no output, no error.
	DecisionIgnore DecisionKind = iota
	// DecisionReply means text should be delivered to the channel.
	DecisionReply
	// DecisionFail means handling failed internally; the reason is logged,
	// never delivered verbatim to the sender.
	DecisionFail
)

// Decision is the sole output of the mediator. Exactly one variant is active;
// the unexported fields and constructors enforce that Ignore and Fail carry
// no text while Reply always does (possibly the empty string).
type Decision struct {
	kind   DecisionKind
	text   string
	reason string
}

func Ignore() Decision { return Decision{kind: DecisionIgnore} }

func Reply(text string) Decision { return Decision{kind: DecisionReply, text: text} }

func Fail(reason string) Decision { return Decision{kind: DecisionFail, reason: reason} }

func (d Decision) Kind() DecisionKind { return d.kind }

func (d Decision) ShouldReply() bool { return d.kind == DecisionReply }

// Text returns the reply text; empty for non-reply variants.
func (d Decision) Text() string { return d.text }

// Reason returns the internal failure reason; empty for non-fail variants.
func (d Decision) Reason() string { return d.reason }
