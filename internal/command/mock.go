// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package command

import (
	"context"
	"sync"
)

// MockRunner is a mock implementation of Runner for testing.
type MockRunner struct {
	mu sync.Mutex

	// RunFunc, when set, decides the outcome of Run calls.
	// When nil, Run succeeds immediately.
	RunFunc func(ctx context.Context, spec Spec) error

	// OutputFunc, when set, decides the outcome of Output calls.
	// When nil, Output returns an empty string.
	OutputFunc func(ctx context.Context, spec Spec) (string, error)

	// RunCalls and OutputCalls record every invocation in order.
	RunCalls    []Spec
	OutputCalls []Spec
}

// NewMockRunner creates a new MockRunner with an empty call history.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		RunCalls:    make([]Spec, 0),
		OutputCalls: make([]Spec, 0),
	}
}

// Run implements the Runner interface.
func (m *MockRunner) Run(ctx context.Context, spec Spec) error {
	m.mu.Lock()
	m.RunCalls = append(m.RunCalls, spec)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, spec)
	}
	return nil
}

// Output implements the Runner interface.
func (m *MockRunner) Output(ctx context.Context, spec Spec) (string, error) {
	m.mu.Lock()
	m.OutputCalls = append(m.OutputCalls, spec)
	m.mu.Unlock()

	if m.OutputFunc != nil {
		return m.OutputFunc(ctx, spec)
	}
	return "", nil
}

// RunNames returns the Name of every recorded Run call, in order.
func (m *MockRunner) RunNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, len(m.RunCalls))
	for i, c := range m.RunCalls {
		names[i] = c.Name
	}
	return names
}

// Reset clears the call history.
func (m *MockRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunCalls = make([]Spec, 0)
	m.OutputCalls = make([]Spec, 0)
}
