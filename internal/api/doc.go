// Package api handles incoming HTTP requests: request decoding and
// validation, calls into the service layer, and response formatting. Errors
// are mapped to status codes in one place (MapErrorToStatusCode) and only
// safe messages reach clients; the full error is logged after redaction.
package api
