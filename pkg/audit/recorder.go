package audit

import (
	"expvar"
	"log"
	"time"

	"github.com/pauljbernard/content-sub002/pkg/model"
	"github.com/pauljbernard/content-sub002/pkg/store"
)

// AuditEventType is the content type that persists audit records.
const AuditEventType = "AuditEvent"

// failures counts audit records that could not be persisted. Fail-open
// auditing is a deliberate availability-over-completeness tradeoff; this
// counter is the monitoring signal that makes the tradeoff observable.
var failures = expvar.NewInt("audit_record_failures")

// Failures returns the number of audit records dropped since start.
func Failures() int64 {
	return failures.Value()
}

// Recorder appends audit events as content instances of the AuditEvent
// type. Records are append-only: nothing here updates or deletes.
type Recorder struct {
	types     store.TypesStore
	instances store.InstancesStore
	logger    *Logger
	now       func() time.Time
}

func NewRecorder(types store.TypesStore, instances store.InstancesStore) *Recorder {
	return &Recorder{
		types:     types,
		instances: instances,
		logger:    NewLogger(),
		now:       time.Now,
	}
}

// SetLogger replaces the line logger (for tests).
func (r *Recorder) SetLogger(l *Logger) {
	r.logger = l
}

// LogEvent appends one audit record and returns it. Persistence failures
// are counted, logged and swallowed: a broken audit subsystem must never
// block the primary operation. The returned instance is nil when the
// record was dropped.
func (r *Recorder) LogEvent(who, action, resource, decision, reason, actorID string) *model.ContentInstance {
	event := AccessEvent{
		Who:      who,
		Action:   action,
		Resource: resource,
		Decision: decision,
		Reason:   reason,
		ActorID:  actorID,
	}
	r.logger.Log(event)

	ct, err := r.types.GetTypeByName(AuditEventType)
	if err != nil {
		failures.Add(1)
		log.Printf("audit: dropping record, %s type unavailable: %v", AuditEventType, err)
		return nil
	}

	inst := &model.ContentInstance{
		ContentTypeID: ct.ID,
		Status:        model.StatusPublished,
		CreatedBy:     who,
		UpdatedBy:     who,
		Data: model.JSONMap{
			"who":       who,
			"action":    action,
			"resource":  resource,
			"decision":  decision,
			"reason":    reason,
			"actor_id":  actorID,
			"timestamp": r.now().UTC().Format(time.RFC3339Nano),
		},
	}
	if err := r.instances.CreateInstance(inst); err != nil {
		failures.Add(1)
		log.Printf("audit: failed to persist record: %v", err)
		return nil
	}
	return inst
}

// Convenience wrappers. Each funnels into LogEvent with a canned reason.

func (r *Recorder) LogLogin(who string) *model.ContentInstance {
	return r.LogEvent(who, "login", "session", DecisionAllowed, "user logged in", who)
}

func (r *Recorder) LogLogout(who string) *model.ContentInstance {
	return r.LogEvent(who, "logout", "session", DecisionAllowed, "user logged out", who)
}

func (r *Recorder) LogCreate(who, resource string) *model.ContentInstance {
	return r.LogEvent(who, "create", resource, DecisionAllowed, "resource created", who)
}

func (r *Recorder) LogUpdate(who, resource string) *model.ContentInstance {
	return r.LogEvent(who, "update", resource, DecisionAllowed, "resource updated", who)
}

func (r *Recorder) LogDelete(who, resource string) *model.ContentInstance {
	return r.LogEvent(who, "delete", resource, DecisionAllowed, "resource deleted", who)
}

func (r *Recorder) LogView(who, resource string) *model.ContentInstance {
	return r.LogEvent(who, "view", resource, DecisionAllowed, "resource viewed", who)
}

func (r *Recorder) LogDenied(who, action, resource string) *model.ContentInstance {
	return r.LogEvent(who, action, resource, DecisionDenied, "permission denied", who)
}
