// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package sequence

import (
	"context"
	"errors"
	"testing"
)

// step returns a Step that records its execution in ran
func step(name string, ran *[]string, err error) Step {
	return Step{
		Name: name,
		Run: func(ctx context.Context) error {
			*ran = append(*ran, name)
			return err
		},
	}
}

// TestExecuteRunsAllSteps tests that a clean sequence runs every step in order
func TestExecuteRunsAllSteps(t *testing.T) {
	var ran []string
	steps := []Step{
		step("first", &ran, nil),
		step("second", &ran, nil),
		step("third", &ran, nil),
	}

	if err := Execute(context.Background(), steps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(ran) != len(want) {
		t.Fatalf("expected %v, got %v", want, ran)
	}
	for i := range want {
		if ran[i] != want[i] {
			t.Errorf("step %d: expected %s, got %s", i, want[i], ran[i])
		}
	}
}

// TestExecuteAbortsOnFirstError tests that steps after a failure never run
func TestExecuteAbortsOnFirstError(t *testing.T) {
	boom := errors.New("boom")
	var ran []string
	steps := []Step{
		step("first", &ran, nil),
		step("second", &ran, boom),
		step("third", &ran, nil),
	}

	err := Execute(context.Background(), steps)
	if err == nil {
		t.Fatal("expected error")
	}

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected *StepError, got %T", err)
	}
	if stepErr.Step != "second" {
		t.Errorf("expected failing step second, got %s", stepErr.Step)
	}
	if stepErr.Index != 1 {
		t.Errorf("expected index 1, got %d", stepErr.Index)
	}
	if !errors.Is(err, boom) {
		t.Error("expected StepError to unwrap to the underlying error")
	}

	if len(ran) != 2 || ran[len(ran)-1] != "second" {
		t.Errorf("expected execution to stop after second, ran %v", ran)
	}
}

// TestExecuteHonorsCancellation tests that a canceled context stops the
// sequence between steps
func TestExecuteHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var ran []string
	steps := []Step{
		{Name: "first", Run: func(ctx context.Context) error {
			ran = append(ran, "first")
			cancel()
			return nil
		}},
		step("second", &ran, nil),
	}

	err := Execute(ctx, steps)
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(ran) != 1 {
		t.Errorf("expected only first step to run, ran %v", ran)
	}
}

// TestExecuteEmptySequence tests that an empty sequence succeeds
func TestExecuteEmptySequence(t *testing.T) {
	if err := Execute(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestStepErrorMessage tests the error rendering
func TestStepErrorMessage(t *testing.T) {
	err := &StepError{Step: "migrate", Index: 2, Err: errors.New("no database")}
	want := `step "migrate" (3) failed: no database`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
