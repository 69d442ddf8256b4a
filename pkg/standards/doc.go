// Package standards imports curriculum standards frameworks from YAML
// documents and materializes each standard as a content instance, so
// standards participate in the same querying, tenancy and validation as
// everything else.
package standards
