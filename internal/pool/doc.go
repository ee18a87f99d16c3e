// Package pool provides part buffer recycling.
//
// Writers hand full part buffers to upload tasks and need a fresh buffer
// immediately. Recycling settled buffers keeps steady-state allocation flat
// for long streams.
package pool
