package pipeline

import "shotsort/internal/category"

// ResolveCategory applies the effective-category policy for one new
// item. The rule-based match is authoritative whenever it succeeds; the
// model category is adopted only when the cheap path was inconclusive:
// an Unsorted image, or a video whose frame aggregation produced a
// non-sentinel category.
func ResolveCategory(ruleCat, modelCat category.Category, isVideo bool) category.Category {
	if isVideo {
		if modelCat != "" && modelCat != category.Videos {
			return modelCat
		}
		return ruleCat
	}
	if ruleCat == category.Unsorted && modelCat != "" && modelCat != category.Unsorted {
		return modelCat
	}
	return ruleCat
}
