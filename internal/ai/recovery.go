package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Tier records which recovery stage produced a result.
type Tier string

const (
	TierStrict    Tier = "strict"
	TierHeuristic Tier = "heuristic"
	TierFallback  Tier = "fallback"
)

// Outcome is a parsed result tagged with the tier that produced it.
type Outcome[T any] struct {
	Data T    `json:"data"`
	Tier Tier `json:"tier"`
}

var (
	fencedJSON = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")
	listMarker = regexp.MustCompile(`^(\d+\.|-|•)\s*`)
)

// extractJSON narrows a completion down to the JSON object it most likely
// carries: the interior of a fenced block, then first '{' to last '}'.
func extractJSON(text string) string {
	s := strings.TrimSpace(text)
	if m := fencedJSON.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// decodeStrict parses the completion as a JSON object and requires every key
// to be present and non-null.
func decodeStrict(text string, keys ...string) (map[string]json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(extractJSON(text)), &obj); err != nil {
		return nil, false
	}
	for _, k := range keys {
		v, ok := obj[k]
		if !ok || string(v) == "null" {
			return nil, false
		}
	}
	return obj, true
}

// stringList decodes a JSON array into trimmed strings, truncated to max when
// max > 0. Anything that is not an array yields an empty, non-nil list.
func stringList(raw json.RawMessage, max int) []string {
	out := []string{}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, it := range items {
		var s string
		switch v := it.(type) {
		case string:
			s = strings.TrimSpace(v)
		case float64, bool:
			s = fmt.Sprint(v)
		default:
			continue
		}
		if s == "" {
			continue
		}
		out = append(out, s)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

func stringValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// numberValue accepts JSON numbers and numeric strings such as "50,000".
func numberValue(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	s = strings.NewReplacer(",", "", "$", "", "%", "", "x", "").Replace(strings.TrimSpace(s))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// section is a named list the heuristic scanner can fill.
type section struct {
	name     string
	keywords []string
	max      int
}

func matchSection(lower string, sections []section) int {
	for i, sec := range sections {
		for _, kw := range sec.keywords {
			if strings.Contains(lower, kw) {
				return i
			}
		}
	}
	return -1
}

// scanSections walks the completion line by line. Header lines switch the
// current section; list items are appended to it until its cap is reached.
// Items appearing before any header are dropped.
func scanSections(text string, sections []section) map[string][]string {
	out := make(map[string][]string, len(sections))
	current := -1

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		marker := listMarker.FindString(line)
		isItem := marker != ""

		if !isItem || strings.HasSuffix(line, ":") {
			if idx := matchSection(strings.ToLower(line), sections); idx >= 0 {
				current = idx
				continue
			}
			if !isItem {
				continue
			}
		}
		if current < 0 {
			continue
		}

		item := strings.TrimSpace(strings.ReplaceAll(line[len(marker):], `"`, ""))
		if item == "" {
			continue
		}
		sec := sections[current]
		if sec.max > 0 && len(out[sec.name]) >= sec.max {
			continue
		}
		out[sec.name] = append(out[sec.name], item)
	}
	return out
}

// recovered reports whether the scanner found anything at all.
func recovered(found map[string][]string) bool {
	for _, items := range found {
		if len(items) > 0 {
			return true
		}
	}
	return false
}

// orFallback returns got, or a copy of at most max fallback items when got
// is empty. max <= 0 means no limit.
func orFallback(got, fallback []string, max int) []string {
	if len(got) > 0 {
		return got
	}
	if max > 0 && len(fallback) > max {
		fallback = fallback[:max]
	}
	if len(fallback) == 0 {
		return []string{}
	}
	return slices.Clone(fallback)
}

func tierFor(found map[string][]string) Tier {
	if recovered(found) {
		return TierHeuristic
	}
	return TierFallback
}
