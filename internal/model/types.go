// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// Config defines capture settings.
type Config struct {
	IdleSeconds int
}

// ClassifyConfig defines options for style classification.
type ClassifyConfig struct {
	Source  string
	Format  string
	Lexicon string
	Limit   int
}

// KeystrokeEvent is a single recorded key-down.
type KeystrokeEvent struct {
	PressedAt time.Time
	Key       string
}

// Segments holds a keystroke log split into keys, messages and sentences.
type Segments struct {
	Keys      []string
	Messages  []string
	Sentences []string
}

// KeyCount pairs a key token with how often it was pressed.
type KeyCount struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// MetricsReport summarizes typing habits for a log snapshot.
type MetricsReport struct {
	TotalKeys          int        `json:"total_keys" yaml:"total_keys"`
	FavoriteKey        KeyCount   `json:"favorite_key" yaml:"favorite_key"`
	MessageCount       int        `json:"message_count" yaml:"message_count"`
	SentenceCount      int        `json:"sentence_count" yaml:"sentence_count"`
	AvgMessageLength   float64    `json:"avg_message_length" yaml:"avg_message_length"`
	AvgSentenceLength  float64    `json:"avg_sentence_length" yaml:"avg_sentence_length"`
	TotalWords         int        `json:"total_words" yaml:"total_words"`
	AvgWordsPerMessage float64    `json:"avg_words_per_message" yaml:"avg_words_per_message"`
	CapsLockUsage      int        `json:"caps_lock_usage" yaml:"caps_lock_usage"`
	SpaceUsage         int        `json:"space_usage" yaml:"space_usage"`
	KeyCounts          []KeyCount `json:"-" yaml:"-"`
}

// Sentiment is the result of lexicon-based comparative scoring.
type Sentiment struct {
	Score       float64  `json:"score" yaml:"score"`
	Comparative float64  `json:"comparative" yaml:"comparative"`
	Positive    []string `json:"positive" yaml:"positive"`
	Negative    []string `json:"negative" yaml:"negative"`
}

// FeatureSet is derived from a text snapshot, the current WPM and hour of day.
type FeatureSet struct {
	WPM            int       `json:"wpm" yaml:"wpm"`
	Hour           int       `json:"hour" yaml:"hour"`
	TextLength     int       `json:"text_length" yaml:"text_length"`
	MessageCount   int       `json:"message_count" yaml:"message_count"`
	AvgMessageLen  float64   `json:"avg_message_length" yaml:"avg_message_length"`
	SentenceCount  int       `json:"sentence_count" yaml:"sentence_count"`
	AvgSentenceLen float64   `json:"avg_sentence_length" yaml:"avg_sentence_length"`
	Words          []string  `json:"-" yaml:"-"`
	WordCount      int       `json:"word_count" yaml:"word_count"`
	Diversity      float64   `json:"diversity" yaml:"diversity"`
	AvgWordLength  float64   `json:"avg_word_length" yaml:"avg_word_length"`
	Exclamations   int       `json:"exclamations" yaml:"exclamations"`
	ExclamRate     float64   `json:"exclamation_rate" yaml:"exclamation_rate"`
	Caps           int       `json:"caps" yaml:"caps"`
	Periods        int       `json:"periods" yaml:"periods"`
	PeriodRate     float64   `json:"period_rate" yaml:"period_rate"`
	Emojis         int       `json:"emojis" yaml:"emojis"`
	Dragged        bool      `json:"dragged" yaml:"dragged"`
	Sentiment      Sentiment `json:"sentiment" yaml:"sentiment"`
	Profanity      int       `json:"profanity" yaml:"profanity"`
	DoomWords      bool      `json:"doom_words" yaml:"doom_words"`
	ScriptedTokens int       `json:"scripted_tokens" yaml:"scripted_tokens"`
	EntriesPerHour float64   `json:"entries_per_hour" yaml:"entries_per_hour"`
	FavoriteKey    KeyCount  `json:"favorite_key" yaml:"favorite_key"`
	CapsLockUsage  int       `json:"caps_lock_usage" yaml:"caps_lock_usage"`
	SpaceUsage     int       `json:"space_usage" yaml:"space_usage"`
}

// Category is a matched typer label with its description.
type Category struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Classification is the ordered list of matched categories.
type Classification struct {
	Categories []Category `json:"categories" yaml:"categories"`
}

// SessionAggregate summarizes a capture session for reporting.
type SessionAggregate struct {
	SessionID string    `json:"session_id" yaml:"session_id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	EndedAt   time.Time `json:"ended_at" yaml:"ended_at"`
	Keys      int       `json:"keys" yaml:"keys"`
}

// String renders categories as "name: description" blocks separated by a blank line.
func (c Classification) String() string {
	blocks := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		blocks = append(blocks, cat.Name+": "+cat.Description)
	}
	return strings.Join(blocks, "\n\n")
}

// Names returns the category names in order.
func (c Classification) Names() []string {
	names := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		names[i] = cat.Name
	}
	return names
}
