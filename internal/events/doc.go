// Package events decouples request handling from background execution.
//
// Services publish an AnalysisRequested event when a user submits an image for
// asynchronous analysis; the task package subscribes to that event type and
// turns it into a cancelable job. Neither side imports the other.
//
// The primary components are:
// - TaskRequestEvent: a typed request carrying a JSON payload
// - EventHandler: interface for components that can handle events
// - InMemoryEventEmitter: synchronous, per-type dispatch to registered handlers
package events
