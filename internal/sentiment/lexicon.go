package sentiment

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadLexicon reads "word<TAB>weight" lines from the provided file path.
// Blank lines and lines starting with '#' are ignored.
func LoadLexicon(path string) (*Lexicon, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only lexicon.
			_ = cerr
		}
	}()
	lex, err := parseLexicon(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if lex.Len() == 0 {
		return nil, fmt.Errorf("lexicon is empty")
	}
	return lex, nil
}

func parseLexicon(r io.Reader) (*Lexicon, error) {
	weights := map[string]float64{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Phrases may contain spaces, so the weight is the last field.
		idx := strings.LastIndexAny(line, "\t ")
		if idx < 0 {
			return nil, fmt.Errorf("line %d: expected word and weight", lineNo)
		}
		word := strings.TrimSpace(line[:idx])
		weight, err := strconv.ParseFloat(line[idx+1:], 64)
		if err != nil || word == "" {
			return nil, fmt.Errorf("line %d: invalid entry %q", lineNo, line)
		}
		weights[word] = weight
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewLexicon(weights), nil
}
