// Package task runs image analyses as background jobs.
//
// A job is an AnalysisTask with its own cancelable context. The TaskRunner
// feeds a bounded TaskQueue to a WorkerPool and keeps every job in a
// JobRegistry until it has been finished for longer than the retention
// window. Jobs that share a session key supersede each other: registering a
// new one cancels the previous one, and a cancelled job never publishes its
// result.
package task
