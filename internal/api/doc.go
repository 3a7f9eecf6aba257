// Package api contains the HTTP handlers for the Daily Dose service: dose
// generation and publication, synchronous parsing of model output, session
// completion, due-card listing and authentication. Handlers translate
// service-layer sentinel errors into HTTP status codes and machine-readable
// error codes; they hold no business logic of their own.
package api
