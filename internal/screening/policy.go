package screening

import "github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/skills"

const (
	DefaultMaxTotalQuestions = 20
	DefaultSoftCategoryCap   = 5
)

// Limits bound how many technical questions a session may ask.
type Limits struct {
	MaxTotalQuestions int
	SoftCategoryCap   int
}

// DefaultLimits returns the standard budget of 20 questions and 5 per category.
func DefaultLimits() Limits {
	return Limits{MaxTotalQuestions: DefaultMaxTotalQuestions, SoftCategoryCap: DefaultSoftCategoryCap}
}

func (l Limits) normalized() Limits {
	if l.MaxTotalQuestions <= 0 {
		l.MaxTotalQuestions = DefaultMaxTotalQuestions
	}
	if l.SoftCategoryCap <= 0 {
		l.SoftCategoryCap = DefaultSoftCategoryCap
	}
	return l
}

// NextCategory picks the category of the next technical question, or reports that the
// screening is complete. Categories under the soft cap with the fewest questions win,
// ties going to the one listed first. Once every category reached the soft cap the
// least asked category is used until the global cap. An empty map asks General
// questions.
func NextCategory(categories skills.Map, history []QuestionRecord, limits Limits) (skills.Category, bool) {
	limits = limits.normalized()

	if len(history) >= limits.MaxTotalQuestions {
		return "", true
	}

	if categories.Len() == 0 {
		return skills.General, false
	}

	counts := countByCategory(history)

	if category, ok := leastAsked(categories, counts, limits.SoftCategoryCap); ok {
		return category, false
	}

	category, _ := leastAsked(categories, counts, 0)
	return category, false
}

// leastAsked returns the first category with the lowest count. A positive limit skips
// categories that already reached it.
func leastAsked(categories skills.Map, counts map[skills.Category]int, limit int) (skills.Category, bool) {
	var (
		best   skills.Category
		lowest int
		found  bool
	)
	for _, group := range categories {
		n := counts[group.Category]
		if limit > 0 && n >= limit {
			continue
		}
		if !found || n < lowest {
			best, lowest, found = group.Category, n, true
		}
	}
	return best, found
}

func countByCategory(history []QuestionRecord) map[skills.Category]int {
	counts := make(map[skills.Category]int)
	for _, q := range history {
		counts[q.Category]++
	}
	return counts
}
