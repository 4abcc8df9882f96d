package prompt

import (
	"strings"
	"testing"
)

func TestSystemSubstitutesDate(t *testing.T) {
	t.Parallel()

	out := System("2024-07-01")
	if !strings.Contains(out, "Today's date is 2024-07-01.") {
		t.Fatalf("date not substituted:\n%s", out)
	}
	if strings.Contains(out, dateToken) {
		t.Fatal("template token leaked into output")
	}
}

func TestSystemWithoutDateDropsAnchorSentence(t *testing.T) {
	t.Parallel()

	out := System("")
	if strings.Contains(out, "Today's date is") {
		t.Fatalf("anchor sentence should be dropped:\n%s", out)
	}
	if !strings.Contains(out, "contract management assistant") {
		t.Fatalf("directive body missing:\n%s", out)
	}
}
