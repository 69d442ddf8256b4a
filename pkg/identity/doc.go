// Package identity carries the resolved request identity through
// context. The access service fills it in from UserAccount and
// UserProfile content instances; handlers read it back with Get.
package identity
