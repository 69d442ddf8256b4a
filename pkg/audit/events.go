package audit

import "fmt"

// Decision values recorded on events.
const (
	DecisionAllowed = "allowed"
	DecisionDenied  = "denied"
)

// AccessEvent is the generic audit event: who did what to which resource
// and whether it was allowed. Every convenience wrapper funnels into this
// shape.
type AccessEvent struct {
	Who      string
	Action   string
	Resource string
	Decision string
	Reason   string
	ActorID  string
}

func (e AccessEvent) MessageID() string {
	return e.Action
}

func (e AccessEvent) Message() string {
	msg := fmt.Sprintf("%s %s %s: %s", e.Who, e.Action, e.Resource, e.Decision)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e AccessEvent) Severity() Severity {
	if e.Decision == DecisionDenied {
		return SeverityWarning
	}
	return SeverityInfo
}

func (e AccessEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Who,
		},
		SDIDSubject: {
			"resource": e.Resource,
		},
		SDIDAction: {
			"operation": e.Action,
			"result":    e.Decision,
		},
	}
	if e.ActorID != "" {
		sd[SDIDAuth]["actor"] = e.ActorID
	}
	return sd
}
