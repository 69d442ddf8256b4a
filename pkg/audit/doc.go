// Package audit records who did what to which resource.
//
// Events go two places: an RFC5424 syslog line on the Logger, and a
// persisted AuditEvent content instance through the Recorder. The
// Recorder fails open: when the store is unavailable the record is
// dropped, counted on the audit_record_failures expvar, and the calling
// operation proceeds.
package audit
