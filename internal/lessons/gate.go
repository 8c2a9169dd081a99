package lessons

import (
	"sort"

	"github.com/chaos156/elearning/internal/models"
)

// SortByOrder sorts lessons ascending by order, ties broken by lesson ID
// for determinism. Duplicate and gap order values are tolerated.
func SortByOrder(lessons []*models.Lesson) {
	sort.Slice(lessons, func(i, j int) bool {
		if lessons[i].Order != lessons[j].Order {
			return lessons[i].Order < lessons[j].Order
		}
		return lessons[i].ID < lessons[j].ID
	})
}

// UnlockedSet computes which lessons are unlocked given the set of lesson
// IDs the student has completed. A lesson with the minimum order present is
// always unlocked. Every other lesson is unlocked iff its predecessor has
// been completed, where the predecessor is the lesson with the largest
// order strictly below its own (highest ID among equals). A lesson with no
// predecessor is treated as having no prior gate.
func UnlockedSet(lessons []*models.Lesson, completed map[string]bool) map[string]bool {
	sorted := make([]*models.Lesson, len(lessons))
	copy(sorted, lessons)
	SortByOrder(sorted)

	unlocked := make(map[string]bool)
	for i, lesson := range sorted {
		var predecessor *models.Lesson
		for j := i - 1; j >= 0; j-- {
			if sorted[j].Order < lesson.Order {
				predecessor = sorted[j]
				break
			}
		}
		if predecessor == nil || completed[predecessor.ID] {
			unlocked[lesson.ID] = true
		}
	}
	return unlocked
}
