// Package schema defines attribute definitions for content types and the
// validation engine that checks instance payloads against them.
//
// Validation dispatches on the attribute type tag through an explicit
// table rather than reflection. Payload keys that match no attribute pass
// through untouched: the data model is schema-on-read, and the API layer
// is the only enforcement point.
package schema
