package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/typestyle/internal/classify"
	"github.com/verte-zerg/typestyle/internal/config"
	"github.com/verte-zerg/typestyle/internal/model"
	"github.com/verte-zerg/typestyle/internal/sentiment"
	"github.com/verte-zerg/typestyle/internal/stats"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

const defaultLimit = classify.DefaultLimit

var (
	classifySource  string
	classifyFormat  string
	classifyLexicon string
	classifyLimit   int

	classifyWPM      int
	classifyHour     int
	classifyText     string
	classifyFeatures bool
)

type classifyOutput struct {
	WPM        int               `json:"wpm" yaml:"wpm"`
	Hour       int               `json:"hour" yaml:"hour"`
	Categories []model.Category  `json:"categories" yaml:"categories"`
	Features   *model.FeatureSet `json:"features,omitempty" yaml:"features,omitempty"`
}

type metricsOutput struct {
	model.MetricsReport `yaml:",inline"`
	TopKeys             []model.KeyCount `json:"top_keys" yaml:"top_keys"`
}

func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify the typing style of the log",
		Args:  cobra.NoArgs,
		RunE:  runClassifyCmd,
	}
	addClassifyConfigFlags(cmd)
	cmd.Flags().StringVar(&classifyFormat, "format", formatText, "output format (text, json, yaml)")
	cmd.Flags().IntVar(&classifyWPM, "wpm", -1, "words per minute (default: last recorded)")
	cmd.Flags().IntVar(&classifyHour, "hour", -1, "hour of day 0-23 (default: now)")
	cmd.Flags().StringVar(&classifyText, "text", "", "classify this text instead of the log")
	cmd.Flags().BoolVar(&classifyFeatures, "features", false, "include extracted features")
	return cmd
}

func addClassifyConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&classifySource, "source", stats.SourceRaw, "classifier text: raw log lines or typed keys (raw, keys)")
	cmd.Flags().StringVar(&classifyLexicon, "lexicon", "", "extra sentiment lexicon (word<TAB>weight per line)")
	cmd.Flags().IntVar(&classifyLimit, "limit", defaultLimit, "maximum number of categories")
}

func resolveClassifyConfig(cmd *cobra.Command) (model.ClassifyConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.ClassifyConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "source", &classifySource, fileCfg.Classify.Source)
	applyStringConfig(cmd, "lexicon", &classifyLexicon, fileCfg.Classify.Lexicon)
	applyIntConfig(cmd, "limit", &classifyLimit, fileCfg.Classify.Limit)
	format := formatText
	if cmd.Flags().Lookup("format") != nil {
		applyStringConfig(cmd, "format", &classifyFormat, fileCfg.Classify.Format)
		format = classifyFormat
	}

	cfg := model.ClassifyConfig{
		Source:  classifySource,
		Format:  format,
		Lexicon: classifyLexicon,
		Limit:   classifyLimit,
	}
	if err := validateClassifyConfig(cfg); err != nil {
		return model.ClassifyConfig{}, err
	}
	return cfg, nil
}

func validateClassifyConfig(cfg model.ClassifyConfig) error {
	if cfg.Source != stats.SourceRaw && cfg.Source != stats.SourceKeys {
		return fmt.Errorf("--source must be %q or %q", stats.SourceRaw, stats.SourceKeys)
	}
	if err := validateFormat(cfg.Format); err != nil {
		return err
	}
	if cfg.Limit <= 0 {
		return fmt.Errorf("--limit must be > 0")
	}
	return nil
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("--format must be one of %s, %s, %s", formatText, formatJSON, formatYAML)
	}
}

// loadLexicon returns the built-in lexicon with the words of path layered on
// top. An empty path yields the built-in lexicon.
func loadLexicon(path string) (*sentiment.Lexicon, error) {
	lex := sentiment.Default()
	if path == "" {
		return lex, nil
	}
	custom, err := sentiment.LoadLexicon(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load lexicon: %w", err)
	}
	logger.Debug("loaded lexicon", zap.String("path", path), zap.Int("words", custom.Len()))
	return lex.Merge(custom), nil
}

func newClassifier(cfg model.ClassifyConfig) (*classify.Classifier, error) {
	lex, err := loadLexicon(cfg.Lexicon)
	if err != nil {
		return nil, err
	}
	c := classify.New(lex)
	c.Limit = cfg.Limit
	return c, nil
}

func runClassifyCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveClassifyConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("hour") && (classifyHour < 0 || classifyHour > 23) {
		return fmt.Errorf("--hour must be between 0 and 23")
	}
	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	hour := now.Hour()
	if cmd.Flags().Changed("hour") {
		hour = classifyHour
	}

	var text string
	wpm := classifyWPM
	if cmd.Flags().Changed("text") {
		text = classifyText
	} else {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(st)
		lines, err := st.Log(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read log: %w", err)
		}
		text = stats.ClassifyText(lines, cfg.Source)
		if wpm < 0 {
			if wpm, err = st.CurrentWPM(cmd.Context()); err != nil {
				return fmt.Errorf("failed to read wpm: %w", err)
			}
		}
	}
	wpm = max(wpm, 0)

	features := classify.Extract(text, wpm, hour, classifier.Scorer)
	result := classifier.Evaluate(features)
	logger.Debug("classified",
		zap.Strings("categories", result.Names()),
		zap.Int("wpm", wpm),
		zap.Int("hour", hour),
		zap.Int("chars", features.TextLength))

	return writeClassification(cmd.OutOrStdout(), cfg.Format, result, features, classifyFeatures)
}

func writeClassification(w io.Writer, format string, result model.Classification, features model.FeatureSet, withFeatures bool) error {
	if format == formatText {
		if err := stats.RenderClassification(w, result); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if withFeatures {
			if _, err := fmt.Fprintln(w); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			if err := stats.RenderFeatures(w, features); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}
	out := classifyOutput{WPM: features.WPM, Hour: features.Hour, Categories: result.Categories}
	if withFeatures {
		out.Features = &features
	}
	return encode(w, format, out)
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
	default:
		return validateFormat(format)
	}
	return nil
}
