package phash_test

import (
	"fmt"
	"testing"

	"shotsort/internal/category"
	"shotsort/internal/phash"
	"shotsort/internal/store"
	"shotsort/internal/testsupport"
)

func TestComputeIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	a := testsupport.WritePNG(t, dir, "a.png", 7)
	b := testsupport.WritePNG(t, dir, "b.png", 7)

	hashA, err := phash.Compute(a)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	hashB, err := phash.Compute(b)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(hashA) != 16 {
		t.Fatalf("expected 16 hex digits, got %q", hashA)
	}
	if hashA != hashB {
		t.Fatalf("identical images must hash identically: %q vs %q", hashA, hashB)
	}
}

func TestDistance(t *testing.T) {
	d, err := phash.Distance("0000000000000000", "000000000000000f")
	if err != nil {
		t.Fatalf("Distance: %v", err)
	}
	if d != 4 {
		t.Fatalf("expected distance 4, got %d", d)
	}
	if _, err := phash.Distance("not-hex", "0"); err == nil {
		t.Fatal("expected parse error")
	}
}

func item(name, hash string) *store.IndexedItem {
	return &store.IndexedItem{Filename: name, Category: category.Unsorted, PHash: hash}
}

func names(items []*store.IndexedItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Filename)
	}
	return out
}

func TestClusterGroupsWithinThreshold(t *testing.T) {
	// b is 4 bits from a, c is 5 bits from a.
	items := []*store.IndexedItem{
		item("a.png", "0000000000000000"),
		item("b.png", "000000000000000f"),
		item("c.png", "000000000000001f"),
	}

	groups := phash.Cluster(items)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if len(groups[0]) != 2 || groups[0][0].Filename != "a.png" || groups[0][1].Filename != "b.png" {
		t.Fatalf("unexpected group: %v", names(groups[0]))
	}
}

func TestClusterEachItemInAtMostOneGroup(t *testing.T) {
	items := []*store.IndexedItem{
		item("a.png", "0000000000000000"),
		item("b.png", "0000000000000001"),
		item("c.png", "0000000000000003"),
		item("d.png", "ffffffffffffffff"),
		item("e.png", "fffffffffffffffe"),
	}

	groups := phash.Cluster(items)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	seen := map[string]bool{}
	for _, group := range groups {
		if len(group) < 2 {
			t.Fatalf("group smaller than 2: %v", names(group))
		}
		for _, it := range group {
			if seen[it.Filename] {
				t.Fatalf("%s appears in more than one group", it.Filename)
			}
			seen[it.Filename] = true
		}
	}
}

func TestClusterNoMatchesNoGroups(t *testing.T) {
	items := []*store.IndexedItem{
		item("a.png", "0000000000000000"),
		item("b.png", "00000000ffffffff"),
	}
	if groups := phash.Cluster(items); len(groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(groups))
	}
}

func TestClusterSkipsUnparsableHashes(t *testing.T) {
	items := []*store.IndexedItem{
		item("a.png", "0000000000000000"),
		item("bad.png", "zz"),
		item("b.png", "0000000000000001"),
	}
	groups := phash.Cluster(items)
	if len(groups) != 1 || len(groups[0]) != 2 {
		t.Fatalf("unexpected grouping: %d groups", len(groups))
	}
}

func TestClusterWindowBoundsScan(t *testing.T) {
	// 1200 items activates the 500-item window. The twin of item 0 sits
	// beyond the window, so it must not be grouped.
	var items []*store.IndexedItem
	items = append(items, item("first.png", "0000000000000000"))
	for i := 1; i <= 1100; i++ {
		// Scrambled hashes keep every filler pair well apart.
		h := uint64(i) * 0x9e3779b97f4a7c15
		items = append(items, item(fmt.Sprintf("filler-%d.png", i), fmt.Sprintf("%016x", h)))
	}
	items = append(items, item("twin.png", "0000000000000001"))

	if groups := phash.Cluster(items); len(groups) != 0 {
		t.Fatalf("expected window to hide the distant twin, got %d groups", len(groups))
	}
}
