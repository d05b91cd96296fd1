package generator

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed words.txt
var builtinWords string

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// DefaultVocabulary returns the built-in neutral word list.
func DefaultVocabulary() []string {
	words, err := readWords(strings.NewReader(builtinWords), nil)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in vocabulary: %v", err))
	}
	return words
}

// LoadVocabulary reads one word per line from the provided file path. Words
// rejected by filter are skipped; a nil filter keeps everything.
func LoadVocabulary(path string, filter FilterFunc) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	words, err := readWords(file, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}

// LowerASCII keeps words made only of the letters a-z.
func LowerASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

func readWords(r io.Reader, filter FilterFunc) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if filter != nil && !filter(line) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
