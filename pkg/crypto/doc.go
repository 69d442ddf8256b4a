// Package crypto implements the process-wide symmetric cipher used for
// secret-valued attributes.
//
// Ciphertexts are packed as "#{VERSION_MAGIC}#{tag}#{iv}#{ctext}" with
// AES-256-GCM, and the encrypting key is derived deterministically from a
// single externally supplied secret so that restarts can still decrypt
// previously stored values. The attribute name is bound in as additional
// authenticated data, so a ciphertext cannot be replayed under another
// field.
package crypto
