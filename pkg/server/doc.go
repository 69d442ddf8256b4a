// Package server wires the HTTP surface: router, stores, validation
// engine, access service, audit recorder and token manager. Endpoint
// handlers live in the endpoints subpackage and register themselves
// against a Server.
package server
