package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Patterns for the repair pass. They target the mistakes chat models make most
// often and are only applied after a strict decode has failed.
var (
	// "value"\n"key": -> "value",\n"key":
	missingCommaBeforeKeyRegex = regexp.MustCompile(`(")\s*\n\s*("[\w][^"]*"\s*:)`)

	// 3\n"key": -> 3,\n"key":
	missingCommaAfterValueRegex = regexp.MustCompile(`(\d|true|false|null)\s*\n\s*("[\w][^"]*"\s*:)`)

	// } "key" -> }, "key"
	missingCommaAfterBraceRegex = regexp.MustCompile(`([}\]])\s*\n?\s*("[\w])`)

	// }\n{ -> },\n{  (array elements without separators)
	missingCommaBetweenObjectsRegex = regexp.MustCompile(`}(\s*){`)

	// ,} -> }
	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)

	// {'key': -> {"key":
	singleQuoteKeyRegex = regexp.MustCompile(`([{,]\s*)'(\w+)'(\s*:)`)

	// : 'value' -> : "value"
	singleQuoteValueRegex = regexp.MustCompile(`(:\s*)'((?:[^'\\]|\\.)*)'(\s*[,}\]])`)
)

// ExtractAndParseJSON pulls the first JSON value out of a model response and
// decodes it into T. Markdown fences, leading prose and trailing text are
// ignored; if strict decoding fails a repair pass is tried before giving up.
func ExtractAndParseJSON[T any](response string) (T, error) {
	var result T

	cleaned := cleanLLMResponse(response)
	if cleaned == "" {
		return result, fmt.Errorf("no JSON found in response")
	}

	// A whole response wrapped in a JSON string: unwrap it and start over.
	if strings.HasPrefix(cleaned, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(cleaned), &inner); err == nil {
			return ExtractAndParseJSON[T](inner)
		}
	}

	idx := strings.IndexAny(cleaned, "{[")
	if idx == -1 {
		return result, fmt.Errorf("no JSON start ({ or [) found")
	}
	jsonPart := cleaned[idx:]

	err := decodeFirst(jsonPart, &result)
	if err == nil {
		return result, nil
	}

	if repaired := repairJSON(jsonPart); repaired != jsonPart {
		var retry T
		if err2 := decodeFirst(repaired, &retry); err2 == nil {
			return retry, nil
		}
	}
	return result, fmt.Errorf("parse JSON: %w", err)
}

// decodeFirst decodes one JSON value and ignores whatever follows it.
func decodeFirst(s string, v any) error {
	return json.NewDecoder(strings.NewReader(s)).Decode(v)
}

// repairJSON applies the fixes in order. Each step is a no-op on valid input.
func repairJSON(input string) string {
	steps := []func(string) string{
		sanitizeStrings,
		func(s string) string { return singleQuoteKeyRegex.ReplaceAllString(s, `$1"$2"$3`) },
		convertSingleQuotedValues,
		func(s string) string { return missingCommaBeforeKeyRegex.ReplaceAllString(s, `$1, $2`) },
		func(s string) string { return missingCommaAfterValueRegex.ReplaceAllString(s, `$1, $2`) },
		func(s string) string { return missingCommaAfterBraceRegex.ReplaceAllString(s, `$1, $2`) },
		func(s string) string { return missingCommaBetweenObjectsRegex.ReplaceAllString(s, `},$1{`) },
		func(s string) string { return trailingCommaRegex.ReplaceAllString(s, `$1`) },
		closeTruncated,
	}
	out := input
	for _, step := range steps {
		out = step(out)
	}
	return out
}

func convertSingleQuotedValues(s string) string {
	return singleQuoteValueRegex.ReplaceAllStringFunc(s, func(match string) string {
		parts := singleQuoteValueRegex.FindStringSubmatch(match)
		if len(parts) != 4 {
			return match
		}
		value := strings.ReplaceAll(parts[2], `\'`, `'`)
		value = strings.ReplaceAll(value, `"`, `\"`)
		return parts[1] + `"` + value + `"` + parts[3]
	})
}

// sanitizeStrings walks double-quoted strings, escaping raw control characters
// and doubling backslashes that do not start a valid JSON escape (e.g. "\d").
func sanitizeStrings(input string) string {
	var b strings.Builder
	b.Grow(len(input))

	inString := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}

		switch {
		case c == '\\':
			if i+1 < len(input) && strings.IndexByte(`"\/bfnrtu`, input[i+1]) >= 0 {
				b.WriteByte(c)
				b.WriteByte(input[i+1])
				i++
				continue
			}
			b.WriteString(`\\`)
		case c == '"':
			inString = false
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20:
			fmt.Fprintf(&b, `\u%04x`, c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// closeTruncated terminates an unfinished string and closes open brackets in
// nesting order, which is what a response cut off by a token limit needs.
func closeTruncated(input string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if !inString && len(stack) == 0 {
		return input
	}
	var b strings.Builder
	b.WriteString(input)
	if inString {
		b.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}

// cleanLLMResponse strips a markdown code fence, keeping only its body.
func cleanLLMResponse(response string) string {
	response = strings.TrimSpace(response)

	if start := strings.Index(response, "```"); start >= 0 {
		body := response[start+3:]
		// Drop the info string (```json).
		if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
			body = body[nl+1:]
		} else {
			body = strings.TrimPrefix(body, "json")
		}
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		response = body
	}

	return strings.TrimSpace(response)
}
