// Package phash computes perceptual hashes for indexed images and groups
// near-duplicates by Hamming distance.
package phash

import (
	"fmt"
	"math/bits"
	"strconv"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"

	"shotsort/internal/store"
)

const (
	// Pairs at most this many bits apart count as duplicates.
	duplicateThreshold = 4

	// Above this many hashed items the forward scan is windowed to keep
	// the pass from going quadratic.
	windowActivation = 1000
	windowSize       = 500
)

// Compute returns the 64-bit difference hash of the image at path as a
// 16-digit hex string.
func Compute(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("phash: open image: %w", err)
	}
	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return "", fmt.Errorf("phash: hash image: %w", err)
	}
	return fmt.Sprintf("%016x", hash.GetHash()), nil
}

// Distance returns the Hamming distance between two hex-encoded hashes.
func Distance(a, b string) (int, error) {
	ua, err := strconv.ParseUint(a, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("phash: parse %q: %w", a, err)
	}
	ub, err := strconv.ParseUint(b, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("phash: parse %q: %w", b, err)
	}
	return bits.OnesCount64(ua ^ ub), nil
}

// Cluster groups near-identical items with a single greedy pass over
// items ordered newest first. Each returned group has at least two
// members, and every item lands in at most one group. The pass is
// single-link, not transitive closure, and large inputs are windowed, so
// clusters are an approximation rather than maximal sets.
func Cluster(items []*store.IndexedItem) [][]*store.IndexedItem {
	hashes := make([]uint64, len(items))
	valid := make([]bool, len(items))
	for i, item := range items {
		h, err := strconv.ParseUint(item.PHash, 16, 64)
		if err != nil {
			continue
		}
		hashes[i] = h
		valid[i] = true
	}

	windowed := len(items) > windowActivation
	processed := make([]bool, len(items))
	var groups [][]*store.IndexedItem

	for i := range items {
		if processed[i] || !valid[i] {
			continue
		}
		limit := len(items)
		if windowed && i+1+windowSize < limit {
			limit = i + 1 + windowSize
		}
		var group []*store.IndexedItem
		for j := i + 1; j < limit; j++ {
			if processed[j] || !valid[j] {
				continue
			}
			if bits.OnesCount64(hashes[i]^hashes[j]) <= duplicateThreshold {
				group = append(group, items[j])
				processed[j] = true
			}
		}
		if len(group) > 0 {
			processed[i] = true
			groups = append(groups, append([]*store.IndexedItem{items[i]}, group...))
		}
	}
	return groups
}
