package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceRegex         = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")
	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)
)

var errNoJSON = errors.New("no JSON object found in response")

// extractJSON decodes the first JSON object in a model reply. Markdown fences
// and trailing prose are ignored; trailing commas are repaired.
func extractJSON[T any](response string) (T, error) {
	var result T

	cleaned := strings.TrimSpace(response)
	if m := fenceRegex.FindStringSubmatch(cleaned); m != nil {
		cleaned = strings.TrimSpace(m[1])
	}

	idx := strings.IndexByte(cleaned, '{')
	if idx == -1 {
		return result, errNoJSON
	}
	jsonPart := cleaned[idx:]

	err := json.NewDecoder(strings.NewReader(jsonPart)).Decode(&result)
	if err == nil {
		return result, nil
	}

	repaired := trailingCommaRegex.ReplaceAllString(jsonPart, `$1`)
	if repaired != jsonPart {
		var again T
		if err2 := json.NewDecoder(strings.NewReader(repaired)).Decode(&again); err2 == nil {
			return again, nil
		}
	}
	return result, fmt.Errorf("parse JSON: %w", err)
}
