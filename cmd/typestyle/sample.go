package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/typestyle/internal/config"
	"github.com/verte-zerg/typestyle/internal/generator"
	"github.com/verte-zerg/typestyle/internal/keylog"
	"github.com/verte-zerg/typestyle/internal/store"
)

const (
	defaultSampleWords   = 60
	defaultMessageWords  = 8
	defaultSampleCaps    = 0.1
	defaultSamplePunct   = 0.15
	defaultSampleFactor  = 3.0
	defaultSamplePuncSet = ".,!?"
)

const (
	moodNeutral  = "neutral"
	moodPositive = "positive"
	moodNegative = "negative"
)

var (
	sampleWords        int
	sampleMessageWords int
	sampleCaps         float64
	samplePunct        float64
	samplePunctSet     string
	sampleMood         string
	sampleMoodFactor   float64
	sampleWPM          int
	sampleSeed         int64
	sampleVocab        string
	sampleLexicon      string
)

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Append a synthetic typing session to the log",
		Args:  cobra.NoArgs,
		RunE:  runSampleCmd,
	}
	cmd.Flags().IntVar(&sampleWords, "words", defaultSampleWords, "number of words to type")
	cmd.Flags().IntVar(&sampleMessageWords, "message-words", defaultMessageWords, "words per message")
	cmd.Flags().Float64Var(&sampleCaps, "caps", defaultSampleCaps, "probability of capitalized first letter (0-1)")
	cmd.Flags().Float64Var(&samplePunct, "punct", defaultSamplePunct, "punctuation probability per word (0-1)")
	cmd.Flags().StringVar(&samplePunctSet, "punct-set", defaultSamplePuncSet, "punctuation set")
	cmd.Flags().StringVar(&sampleMood, "mood", moodNeutral, "bias toward lexicon words (neutral, positive, negative)")
	cmd.Flags().Float64Var(&sampleMoodFactor, "mood-factor", defaultSampleFactor, "weight factor for mood words")
	cmd.Flags().IntVar(&sampleWPM, "wpm", generator.DefaultWPM, "typing speed used for timestamps")
	cmd.Flags().Int64Var(&sampleSeed, "seed", 0, "random seed (default: current time)")
	cmd.Flags().StringVar(&sampleVocab, "vocab", "", "word list file, one lowercase word per line (default: built-in)")
	cmd.Flags().StringVar(&sampleLexicon, "lexicon", "", "extra sentiment lexicon for mood words (word<TAB>weight per line)")
	return cmd
}

func validateSampleFlags() error {
	if sampleWords <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if sampleMessageWords <= 0 {
		return fmt.Errorf("--message-words must be > 0")
	}
	if sampleCaps < 0 || sampleCaps > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if samplePunct < 0 || samplePunct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if sampleMoodFactor < 0 {
		return fmt.Errorf("--mood-factor must be >= 0")
	}
	if sampleWPM <= 0 {
		return fmt.Errorf("--wpm must be > 0")
	}
	switch sampleMood {
	case moodNeutral, moodPositive, moodNegative:
		return nil
	default:
		return fmt.Errorf("--mood must be %s, %s or %s", moodNeutral, moodPositive, moodNegative)
	}
}

func runSampleCmd(cmd *cobra.Command, _ []string) error {
	if err := validateSampleFlags(); err != nil {
		return err
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lexicon", &sampleLexicon, fileCfg.Classify.Lexicon)

	vocab := generator.DefaultVocabulary()
	if sampleVocab != "" {
		loaded, err := generator.LoadVocabulary(sampleVocab, generator.LowerASCII)
		if err != nil {
			return fmt.Errorf("failed to load vocabulary: %w", err)
		}
		vocab = loaded
	}

	seed := sampleSeed
	if !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}
	gen := generator.New(seed)

	var words []string
	if sampleMood == moodNeutral {
		words = gen.Words(vocab, sampleWords, sampleCaps, samplePunct, []rune(samplePunctSet))
	} else {
		sign := 1
		if sampleMood == moodNegative {
			sign = -1
		}
		lex, err := loadLexicon(sampleLexicon)
		if err != nil {
			return err
		}
		moodWords := lex.Words(sign)
		favored := make(map[string]struct{}, len(moodWords))
		for _, w := range moodWords {
			favored[w] = struct{}{}
		}
		pool := append(append([]string(nil), vocab...), moodWords...)
		words = gen.WeightedWords(pool, sampleWords, sampleCaps, samplePunct, []rune(samplePunctSet), favored, sampleMoodFactor)
	}

	events := generator.Keystrokes(generator.Messages(words, sampleMessageWords), time.Now(), sampleWPM)
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = keylog.FormatLine(e)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	sessionID := store.NewSessionID()
	imported, _, err := st.AppendLines(cmd.Context(), sessionID, lines, time.Now())
	if err != nil {
		return fmt.Errorf("failed to append sample: %w", err)
	}
	logger.Debug("sample generated", zap.Int64("seed", seed), zap.String("mood", sampleMood), zap.Int("words", len(words)))
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Appended %d keystrokes (%d words) as session %s\n", imported, len(words), sessionID); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
