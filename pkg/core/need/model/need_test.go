package model

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"golang.org/x/text/language"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDerivePriority(t *testing.T) {
	tests := []struct {
		quantity int
		want     Priority
	}{
		{0, PriorityHigh},
		{9, PriorityHigh},
		{10, PriorityMedium},
		{49, PriorityMedium},
		{50, PriorityLow},
		{500, PriorityLow},
	}
	for _, tt := range tests {
		if got := DerivePriority(tt.quantity); got != tt.want {
			t.Errorf("DerivePriority(%d) = %s, want %s", tt.quantity, got, tt.want)
		}
	}
}

func TestPriorityFollowsQuantity(t *testing.T) {
	n := Need{QuantityCommitted: 9}
	if n.Priority() != PriorityHigh {
		t.Fatalf("got %s", n.Priority())
	}
	n.QuantityCommitted++
	if n.Priority() != PriorityMedium {
		t.Fatalf("priority did not follow quantity: %s", n.Priority())
	}
}

func ids(needs []Need) []string {
	out := make([]string, len(needs))
	for i, n := range needs {
		out[i] = n.ID
	}
	return out
}

func fixtures() []Need {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return []Need{
		{ID: "a", Title: "water tanks", Domain: "Disaster Relief", DomainSlug: "disaster-relief", QuantityCommitted: 60, CreatedAt: base},
		{ID: "b", Title: "Blankets", Domain: "Shelter", DomainSlug: "shelter", QuantityCommitted: 12, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "c", Title: "Écoles", Domain: "Education", DomainSlug: "education", QuantityCommitted: 0, CreatedAt: base.Add(time.Hour)},
		{ID: "d", Title: "apples", Domain: "Food", QuantityCommitted: 3, Status: StatusFulfilled, CreatedAt: base.Add(time.Hour)},
	}
}

func TestSortNeeds(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortByPriority, []string{"c", "d", "b", "a"}},
		{SortByDate, []string{"b", "d", "c", "a"}},
		{SortByTitle, []string{"d", "b", "c", "a"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			in := fixtures()
			got := ids(SortNeeds(in, tt.key, language.English))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"a", "b", "c", "d"}, ids(in)); diff != "" {
				t.Errorf("input was mutated (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDomainFilter(t *testing.T) {
	for in, want := range map[string]string{
		"":                   "",
		"All":                "",
		" all ":              "",
		"Disaster Relief":    "disaster-relief",
		"disaster-relief":    "disaster-relief",
		"Water & Sanitation": DomainSlug("Water & Sanitation"),
	} {
		if got := DomainFilter(in); got != want {
			t.Errorf("DomainFilter(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]SortKey{"": SortByPriority, "Date": SortByDate, " title ": SortByTitle} {
		got, ok := ParseSortKey(in)
		if !ok || got != want {
			t.Errorf("ParseSortKey(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseSortKey("popularity"); ok {
		t.Error("unknown key accepted")
	}
}
