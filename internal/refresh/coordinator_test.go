package refresh

import (
	"testing"
	"time"
)

func TestTriggerProceedsWhenIdle(t *testing.T) {
	c := NewCoordinator()

	if !c.HandleTrigger() {
		t.Fatal("expected trigger to proceed when idle")
	}
	if !c.Busy() {
		t.Error("expected coordinator busy after trigger proceeds")
	}
}

func TestTriggerDefersWhenBusy(t *testing.T) {
	c := NewCoordinator()

	if !c.HandleTrigger() {
		t.Fatal("first trigger should proceed")
	}
	if c.HandleTrigger() {
		t.Error("trigger during a running cycle must defer")
	}
	if !c.ConsumePendingRefresh() {
		t.Error("deferred trigger must set the pending flag")
	}
}

func TestTriggerDefersDuringAnalysis(t *testing.T) {
	c := NewCoordinator()

	if !c.PrepareForLoad() {
		t.Fatal("first load should proceed")
	}
	c.BeginAnalysis()
	if c.HandleTrigger() {
		t.Error("trigger during analysis must defer")
	}
	c.FinishCycle()
	if !c.ConsumePendingRefresh() {
		t.Error("expected pending flag after deferred trigger")
	}
}

func TestAutoRefreshDisabledBlocksTriggers(t *testing.T) {
	c := NewCoordinator()
	c.SetAutoRefresh(false)

	if c.HandleTrigger() {
		t.Error("trigger must not proceed with auto-refresh disabled")
	}
	// Disabled auto-refresh drops the trigger entirely, no pending flag
	if c.ConsumePendingRefresh() {
		t.Error("disabled auto-refresh must not queue a pending refresh")
	}
}

func TestConsumePendingRefreshClearsFlag(t *testing.T) {
	c := NewCoordinator()

	if !c.HandleTrigger() {
		t.Fatal("first trigger should proceed")
	}

	// Multiple deferred triggers fold into exactly one pending re-run
	c.HandleTrigger()
	c.HandleTrigger()
	c.HandleTrigger()
	c.FinishCycle()

	if !c.ConsumePendingRefresh() {
		t.Fatal("expected pending flag set")
	}
	if c.ConsumePendingRefresh() {
		t.Error("pending flag must be cleared by the first consume")
	}
}

func TestCycleLifecycle(t *testing.T) {
	c := NewCoordinator()

	if !c.PrepareForLoad() {
		t.Fatal("load should proceed when idle")
	}
	c.BeginAnalysis()
	if !c.Busy() {
		t.Error("expected busy during analysis")
	}
	c.FinishCycle()
	if c.Busy() {
		t.Error("expected idle after cycle finishes")
	}
	if !c.PrepareForLoad() {
		t.Error("next load should proceed after the cycle finished")
	}
}

func TestMinIntervalThrottlesTriggers(t *testing.T) {
	c := NewCoordinator(WithMinInterval(time.Hour))

	if !c.HandleTrigger() {
		t.Fatal("first trigger should pass the limiter")
	}
	c.FinishCycle()

	// Second trigger inside the interval defers through the pending flag
	if c.HandleTrigger() {
		t.Error("trigger inside the minimum interval must defer")
	}
	if !c.ConsumePendingRefresh() {
		t.Error("throttled trigger must set the pending flag")
	}
}
