package rate

import (
	"testing"
	"time"
)

func newTestLimiter() (*Limiter, *time.Time) {
	l := NewLimiter(DefaultPolicies())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.SetClock(func() time.Time { return now })
	return l, &now
}

func TestWindowBlocksAfterBudgetExceeded(t *testing.T) {
	l, _ := newTestLimiter()

	for i := 0; i < 5; i++ {
		l.RecordAttempt(ActionLogin, "a@b.com")
		if l.IsBlocked(ActionLogin, "a@b.com") {
			t.Fatalf("blocked after %d attempts, budget is 5", i+1)
		}
	}

	l.RecordAttempt(ActionLogin, "a@b.com")
	if !l.IsBlocked(ActionLogin, "a@b.com") {
		t.Fatal("expected block after 6th attempt")
	}
	if got := l.RemainingCooldown(ActionLogin, "a@b.com"); got != 300 {
		t.Fatalf("RemainingCooldown = %d, want 300", got)
	}
}

func TestCooldownSelfHeals(t *testing.T) {
	l, now := newTestLimiter()

	for i := 0; i < 6; i++ {
		l.RecordAttempt(ActionSecondFactor, "a@b.com")
	}
	if !l.IsBlocked(ActionSecondFactor, "a@b.com") {
		t.Fatal("expected block")
	}

	*now = now.Add(2*time.Minute + time.Second)
	if l.IsBlocked(ActionSecondFactor, "a@b.com") {
		t.Fatal("expected cooldown to have elapsed")
	}
	// The elapsed record must be gone, so the budget starts fresh.
	if got := l.RemainingAttempts(ActionSecondFactor, "a@b.com"); got != 3 {
		t.Fatalf("RemainingAttempts = %d, want 3", got)
	}
}

func TestExpiredWindowRestartsAtOne(t *testing.T) {
	l, now := newTestLimiter()

	l.RecordAttempt(ActionLogin, "x@y.com")
	l.RecordAttempt(ActionLogin, "x@y.com")
	if got := l.RemainingAttempts(ActionLogin, "x@y.com"); got != 3 {
		t.Fatalf("RemainingAttempts = %d, want 3", got)
	}

	*now = now.Add(16 * time.Minute)
	l.RecordAttempt(ActionLogin, "x@y.com")
	if got := l.RemainingAttempts(ActionLogin, "x@y.com"); got != 4 {
		t.Fatalf("RemainingAttempts after window expiry = %d, want 4", got)
	}
}

func TestIdentifiersAreIndependent(t *testing.T) {
	l, _ := newTestLimiter()

	for i := 0; i < 6; i++ {
		l.RecordAttempt(ActionLogin, "blocked@b.com")
	}
	if !l.IsBlocked(ActionLogin, "blocked@b.com") {
		t.Fatal("expected block for first identifier")
	}
	if l.IsBlocked(ActionLogin, "other@b.com") {
		t.Fatal("unrelated identifier must not be blocked")
	}
	// Identifier comparison is case-insensitive.
	if !l.IsBlocked(ActionLogin, "Blocked@B.com") {
		t.Fatal("expected block regardless of identifier case")
	}
}

func TestResetClearsSingleRecord(t *testing.T) {
	l, _ := newTestLimiter()

	for i := 0; i < 6; i++ {
		l.RecordAttempt(ActionSecondFactor, "a@b.com")
		l.RecordAttempt(ActionLogin, "a@b.com")
	}
	l.Reset(ActionSecondFactor, "a@b.com")

	if l.IsBlocked(ActionSecondFactor, "a@b.com") {
		t.Fatal("expected otp record cleared")
	}
	if !l.IsBlocked(ActionLogin, "a@b.com") {
		t.Fatal("login record must survive an otp reset")
	}
}

func TestClearAllWipesEverything(t *testing.T) {
	l, _ := newTestLimiter()

	for i := 0; i < 6; i++ {
		l.RecordAttempt(ActionLogin, "a@b.com")
		l.RecordAttempt(ActionPasswordReset, "c@d.com")
	}
	l.ClearAll()

	if l.IsBlocked(ActionLogin, "a@b.com") || l.IsBlocked(ActionPasswordReset, "c@d.com") {
		t.Fatal("expected all records cleared")
	}
}

func TestUnknownActionNeverBlocks(t *testing.T) {
	l, _ := newTestLimiter()

	for i := 0; i < 100; i++ {
		l.RecordAttempt("unknown", "a@b.com")
	}
	if l.IsBlocked("unknown", "a@b.com") {
		t.Fatal("actions without a policy must not block")
	}
}

func TestRemainingCooldownRoundsUp(t *testing.T) {
	l, now := newTestLimiter()

	for i := 0; i < 6; i++ {
		l.RecordAttempt(ActionLogin, "a@b.com")
	}
	*now = now.Add(4*time.Minute + 59*time.Second + 500*time.Millisecond)
	if got := l.RemainingCooldown(ActionLogin, "a@b.com"); got != 1 {
		t.Fatalf("RemainingCooldown = %d, want 1 (ceil of 0.5s)", got)
	}
}
