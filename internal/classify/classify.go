// Package classify infers typing-style categories from accumulated text.
//
// Classification is stateless: every call re-derives features from the
// provided snapshot, so callers may invoke it repeatedly on a growing log.
package classify

import (
	"github.com/verte-zerg/typestyle/internal/model"
	"github.com/verte-zerg/typestyle/internal/sentiment"
)

// DefaultLimit is the number of categories kept after rule evaluation.
const DefaultLimit = 2

// Classifier evaluates the rule table against extracted features.
type Classifier struct {
	Scorer       sentiment.Scorer
	Rules        []Rule
	Descriptions map[string]string
	Limit        int
}

// New returns a Classifier with the built-in rules and descriptions.
func New(scorer sentiment.Scorer) *Classifier {
	return &Classifier{
		Scorer:       scorer,
		Rules:        Rules(),
		Descriptions: Descriptions(),
		Limit:        DefaultLimit,
	}
}

// Classify extracts features from text and evaluates the rules.
func (c *Classifier) Classify(text string, wpm, hour int) model.Classification {
	return c.Evaluate(Extract(text, wpm, hour, c.Scorer))
}

// Evaluate returns the first Limit matching categories in rule order, or the
// undefined category when nothing matches. Empty text carries no signal and
// is always undefined.
func (c *Classifier) Evaluate(f model.FeatureSet) model.Classification {
	var names []string
	if f.TextLength > 0 {
		names = c.Match(f)
	}
	if len(names) == 0 {
		names = []string{Undefined}
	}
	limit := c.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(names) > limit {
		names = names[:limit]
	}
	result := model.Classification{Categories: make([]model.Category, 0, len(names))}
	for _, name := range names {
		result.Categories = append(result.Categories, model.Category{
			Name:        name,
			Description: c.describe(name),
		})
	}
	return result
}

// describe prefers the classifier's own table and falls back to the built-in one.
func (c *Classifier) describe(name string) string {
	if c.Descriptions != nil {
		return c.Descriptions[name]
	}
	return Describe(name)
}

// Match returns the names of every matching rule in table order.
func (c *Classifier) Match(f model.FeatureSet) []string {
	var names []string
	for _, rule := range c.Rules {
		if rule.Match(f) {
			names = append(names, rule.Name)
		}
	}
	return names
}
