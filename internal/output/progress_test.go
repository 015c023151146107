package output

import (
	"bytes"
	"strings"
	"testing"
)

// A *bytes.Buffer is not a TTY, so the bar stays silent until completion and
// the spinner prints its message once instead of animating.

func TestProgressBar_NonTTY_SilentUntilComplete(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(10, "Removing environments")
	p.SetWriter(buf)

	p.Increment()
	p.IncrementBy(4)
	if buf.Len() != 0 {
		t.Errorf("partial progress should not emit on non-TTY, got: %q", buf.String())
	}

	p.IncrementBy(5)
	output := buf.String()
	if !strings.Contains(output, "100%") {
		t.Errorf("completion should show 100%%, got: %q", output)
	}
	if !strings.Contains(output, "Removing environments") {
		t.Errorf("completion should include description, got: %q", output)
	}
	if !strings.Contains(output, "[") || !strings.Contains(output, "]") {
		t.Errorf("bar should contain brackets, got: %q", output)
	}
}

func TestProgressBar_Finish_EmitsOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(4, "Cleanup")
	p.SetWriter(buf)

	p.IncrementBy(2)
	p.Finish()

	output := buf.String()
	if strings.Count(output, "100%") != 1 {
		t.Errorf("expected exactly one 100%% line, got: %q", output)
	}
}

func TestProgressBar_Finish_AfterCompletion_NoDuplicate(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(2, "Cleanup")
	p.SetWriter(buf)

	p.IncrementBy(2)
	p.Finish()

	output := buf.String()
	if strings.Count(output, "100%") != 1 {
		t.Errorf("Finish after completion should not re-emit, got: %q", output)
	}
}

func TestProgressBar_OverLimit_Caps(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(10, "Test")
	p.SetWriter(buf)

	p.IncrementBy(15)
	output := buf.String()
	if !strings.Contains(output, "100%") {
		t.Errorf("progress should cap at 100%%, got: %q", output)
	}
}

func TestProgressBar_ZeroTotal_DoesNotPanic(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(0, "Empty")
	p.SetWriter(buf)

	p.Increment()
	output := buf.String()
	if !strings.Contains(output, "[") || !strings.Contains(output, "]") {
		t.Errorf("zero-total bar should still render, got: %q", output)
	}
}

func TestProgressBar_Width(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(10, "Test")
	p.SetWriter(buf)
	p.SetWidth(20)

	p.IncrementBy(10)
	output := buf.String()

	start := strings.Index(output, "[")
	end := strings.Index(output, "]")
	if start == -1 || end == -1 {
		t.Fatalf("could not find brackets in output: %q", output)
	}
	if got := end - start - 1; got != 20 {
		t.Errorf("bar width = %d, want 20: %q", got, output[start:end+1])
	}
}

func TestProgressBar_Concurrent(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(1000, "Concurrent test")
	p.SetWriter(buf)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				p.Increment()
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	output := buf.String()
	if !strings.Contains(output, "100%") {
		t.Errorf("after concurrent increments, should be at 100%%, got: %q", output)
	}
}

func TestSpinner_NonTTY_PrintsMessageOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Creating environment web")
	s.SetWriter(buf)

	s.Start()
	s.Stop()

	output := buf.String()
	if output != "Creating environment web...\n" {
		t.Errorf("non-TTY spinner output = %q", output)
	}
}

func TestSpinner_MultipleStops_DoNotPanic(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Test")
	s.SetWriter(buf)

	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinner_StartTwice_PrintsOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Working")
	s.SetWriter(buf)

	s.Start()
	s.Start()
	s.Stop()

	if got := strings.Count(buf.String(), "Working"); got != 1 {
		t.Errorf("message printed %d times, want 1: %q", got, buf.String())
	}
}

func TestSpinner_StopWithMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Installing packages")
	s.SetWriter(buf)

	s.Start()
	s.StopWithMessage("Done!")

	output := buf.String()
	if !strings.Contains(output, "Done!") {
		t.Errorf("final message missing, got: %q", output)
	}
}

func TestSpinner_UpdateMessageBeforeStart(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Initial")
	s.SetWriter(buf)

	s.UpdateMessage("Updated")
	s.Start()
	s.Stop()

	output := buf.String()
	if !strings.Contains(output, "Updated") {
		t.Errorf("spinner should print updated message, got: %q", output)
	}
	if strings.Contains(output, "Initial") {
		t.Errorf("spinner should not print stale message, got: %q", output)
	}
}

func BenchmarkProgressBar_Increment(b *testing.B) {
	buf := &bytes.Buffer{}
	p := NewProgress(b.N, "Benchmark")
	p.SetWriter(buf)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Increment()
	}
}
