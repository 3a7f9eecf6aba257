// Package task provides background task processing: a persisted task queue,
// a worker pool that executes tasks, and recovery of tasks interrupted by a
// restart. Dose generation runs here so HTTP handlers can return as soon as
// the work is enqueued.
package task
