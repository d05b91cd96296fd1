package classify

import "github.com/verte-zerg/typestyle/internal/model"

// Rule is a named predicate over a feature set.
type Rule struct {
	Name  string
	Match func(f model.FeatureSet) bool
}

// Rules returns the typer rules in priority order. Order only matters for
// truncation: every matching rule is collected, the first ones win.
func Rules() []Rule {
	return []Rule{
		{"verbose typer", func(f model.FeatureSet) bool {
			return f.TextLength > 700 && f.AvgMessageLen > 100 && f.Diversity > 0.4
		}},
		{"ranting typer", func(f model.FeatureSet) bool {
			return f.AvgMessageLen > 200 && f.Sentiment.Comparative < -0.5
		}},
		{"neutral typer", func(f model.FeatureSet) bool {
			return f.TextLength < 200 && f.Sentiment.Comparative > 0 && f.WPM < 60
		}},
		{"slammer", func(f model.FeatureSet) bool {
			return f.ExclamRate > 2 && f.Dragged && f.Sentiment.Comparative > 0.3
		}},
		{"energetic typer", func(f model.FeatureSet) bool {
			return f.ExclamRate > 1.5
		}},
		{"hasty typer", func(f model.FeatureSet) bool {
			return f.WPM > 110 && f.AvgMessageLen < 80 && f.Diversity > 0.3
		}},
		{"pottymouth", func(f model.FeatureSet) bool {
			return f.Profanity >= 4 && f.Sentiment.Comparative < -0.3
		}},
		{"formal typer", func(f model.FeatureSet) bool {
			return f.Caps > 20 && f.Periods > 5 && float64(f.Caps+f.Periods)/safeLength(f) > 0.12
		}},
		{"punctuator", func(f model.FeatureSet) bool {
			return f.PeriodRate > 5
		}},
		{"excited typer", func(f model.FeatureSet) bool {
			return f.Dragged && f.ExclamRate < 0.5
		}},
		{"all-caps typer", func(f model.FeatureSet) bool {
			return f.Caps > 50 && float64(f.Caps)/safeLength(f) > 0.2
		}},
		{"happy typer", func(f model.FeatureSet) bool {
			return f.WPM > 90 && f.Sentiment.Comparative > 0.5
		}},
		{"sleepy typer", func(f model.FeatureSet) bool {
			return f.WPM < 40 && f.ExclamRate < 0.05 && f.Diversity > 0.3
		}},
		{"nervous typer", func(f model.FeatureSet) bool {
			return f.AvgMessageLen < 20 && f.EntriesPerHour > 30
		}},
		{"scripted typer", func(f model.FeatureSet) bool {
			return f.ScriptedTokens > 10
		}},
		{"copy-paste typer", func(f model.FeatureSet) bool {
			return f.WordCount > 1000
		}},
		{"chronically typing typer", func(f model.FeatureSet) bool {
			return f.WPM > 100 && f.AvgMessageLen > 500 && f.EntriesPerHour > 12
		}},
		{"academic typer", func(f model.FeatureSet) bool {
			return f.AvgWordLength > 6 && f.Periods > 10 && f.ExclamRate < 0.1
		}},
		{"emojinal typer", func(f model.FeatureSet) bool {
			return f.Emojis >= 5 && f.Sentiment.Comparative > 0.3
		}},
		{"doomer typer", func(f model.FeatureSet) bool {
			return f.DoomWords && f.Sentiment.Comparative < -0.5
		}},
		{"sarcastic typer", func(f model.FeatureSet) bool {
			return len(f.Sentiment.Positive) > 5 && f.Sentiment.Comparative < -0.3
		}},
		{"troll typer", func(f model.FeatureSet) bool {
			return len(f.Sentiment.Positive) > 0 && len(f.Sentiment.Negative) > 3 && f.Sentiment.Comparative < -0.5
		}},
		{"baby typer", func(f model.FeatureSet) bool {
			return f.AvgWordLength < 3 && f.AvgMessageLen < 20 && f.Diversity < 0.3
		}},
		{"stream-of-conscious typer", func(f model.FeatureSet) bool {
			return f.TextLength > 800 && f.Periods == 0 && f.Caps < 10
		}},
	}
}

func safeLength(f model.FeatureSet) float64 {
	return float64(max(f.TextLength, 1))
}
