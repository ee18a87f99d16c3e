// Package testutil provides test utilities for progress tracking.
package testutil

import (
	"sync"
)

// MockProgressTracker is a mock ProgressTracker implementation for testing.
// It is safe for concurrent use, matching the contract trackers must meet.
type MockProgressTracker struct {
	mu               sync.Mutex
	updateCalled     bool
	completeCalled   bool
	errorCalled      bool
	bytesTransferred int64
	bytesWritten     int64
	lastError        error
}

// Update records a progress update. Updates from concurrent part uploads
// may arrive out of order, so the tracker keeps the highest observed values.
func (m *MockProgressTracker) Update(bytesTransferred, bytesWritten int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalled = true
	if bytesTransferred > m.bytesTransferred {
		m.bytesTransferred = bytesTransferred
	}
	if bytesWritten > m.bytesWritten {
		m.bytesWritten = bytesWritten
	}
}

// Complete marks the transfer as complete.
func (m *MockProgressTracker) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeCalled = true
}

// Error records a transfer failure.
func (m *MockProgressTracker) Error(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCalled = true
	m.lastError = err
}

// UpdateCalled reports whether Update ran at least once.
func (m *MockProgressTracker) UpdateCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateCalled
}

// CompleteCalled reports whether Complete ran.
func (m *MockProgressTracker) CompleteCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completeCalled
}

// ErrorCalled reports whether Error ran.
func (m *MockProgressTracker) ErrorCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorCalled
}

// BytesTransferred returns the highest transferred byte count reported.
func (m *MockProgressTracker) BytesTransferred() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bytesTransferred
}

// BytesWritten returns the highest written byte count reported.
func (m *MockProgressTracker) BytesWritten() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bytesWritten
}

// LastError returns the error recorded by Error.
func (m *MockProgressTracker) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}
