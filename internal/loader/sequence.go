package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Expand turns a single image path into the run of sibling files that share
// its extension and numbering pattern, in lexical order. firstNum and lastNum
// bound the run by the numbers embedded in the filenames; out-of-range bounds
// are ignored rather than erroring so a sloppy bound still yields frames.
func Expand(path string, firstNum, lastNum *int) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("image source must be an existing file: %s", path)
	}

	ext := filepath.Ext(path)
	siblings, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*"+ext))
	if err != nil {
		return nil, fmt.Errorf("failed to list image directory: %w", err)
	}
	if len(siblings) > 1 {
		siblings = samePattern(path, siblings)
	}
	if len(siblings) <= 1 {
		return []string{path}, nil
	}

	firstLoaded, _ := trailingNumber(stem(siblings[0]))

	firstIdx := 0
	if firstNum != nil {
		firstIdx = *firstNum - firstLoaded
		if firstIdx < 0 || firstIdx > len(siblings) {
			firstIdx = 0
		}
	} else {
		for i, p := range siblings {
			if p == path {
				firstIdx = i
				break
			}
		}
	}

	lastIdx := len(siblings)
	if lastNum != nil {
		lastIdx = *lastNum + 1 - firstLoaded
		if lastIdx > len(siblings) || lastIdx <= firstIdx {
			lastIdx = len(siblings)
		}
	}

	return siblings[firstIdx:lastIdx], nil
}

// samePattern keeps only candidates whose stem shares the selected file's
// non-numeric prefix. A file with no trailing digits stands alone.
func samePattern(path string, candidates []string) []string {
	selected := stem(path)
	_, digits := trailingNumber(selected)
	if digits == 0 {
		return []string{path}
	}
	prefix := selected[:len(selected)-digits]

	var run []string
	for _, c := range candidates {
		s := stem(c)
		_, d := trailingNumber(s)
		if d == 0 {
			continue
		}
		if prefix == "" {
			// Pure-number stems form a run only at equal width.
			if d == len(s) && len(s) == len(selected) {
				run = append(run, c)
			}
			continue
		}
		if s[:len(s)-d] == prefix {
			run = append(run, c)
		}
	}
	if len(run) == 0 {
		return []string{path}
	}
	return run
}

// trailingNumber parses the digit run at the end of a stem, returning its
// value and length. A stem without digits yields (0, 0).
func trailingNumber(s string) (value, digits int) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	digits = len(s) - i
	if digits == 0 {
		return 0, 0
	}
	trimmed := strings.TrimLeft(s[i:], "0")
	if trimmed == "" {
		return 0, digits
	}
	value, _ = strconv.Atoi(trimmed)
	return value, digits
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
