package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrMalformed reports that no JSON value could be extracted from a reply.
	ErrMalformed = errors.New("reply is not valid JSON")
	// ErrSchema reports that the extracted JSON has the wrong shape.
	ErrSchema = errors.New("reply does not match the expected schema")
)

const fence = "```"

// ExtractJSON returns the JSON value embedded in a model reply.
//
// Accepted grammar, after trimming whitespace:
//
//	reply := [ "```" [ "json" | "JSON" ] ] value [ "```" ]
//
// The closing fence is only accepted when an opening fence was present. When
// the reply does not match, the span from the first '{' or '[' to the last
// '}' or ']' is tried instead.
func ExtractJSON(text string) (json.RawMessage, error) {
	s := strings.TrimSpace(text)
	fenced := strings.HasPrefix(s, fence)
	if fenced {
		s = strings.TrimPrefix(s, fence)
		switch {
		case strings.HasPrefix(s, "json"):
			s = s[len("json"):]
		case strings.HasPrefix(s, "JSON"):
			s = s[len("JSON"):]
		}
		s = strings.TrimSpace(s)
	}

	if raw, ok := decodeLeading(s, fenced); ok {
		return raw, nil
	}

	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "}]")
	if start >= 0 && end > start {
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}
	return nil, ErrMalformed
}

// decodeLeading decodes one JSON value at the start of s and accepts the
// remainder only if it is empty, or a closing fence when allowClose is set.
func decodeLeading(s string, allowClose bool) (json.RawMessage, bool) {
	if s == "" {
		return nil, false
	}
	dec := json.NewDecoder(strings.NewReader(s))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, false
	}
	rest := strings.TrimSpace(s[dec.InputOffset():])
	if rest == "" || (allowClose && rest == fence) {
		return raw, true
	}
	return nil, false
}

// Decode extracts the JSON value from text into v. When required keys are
// given the value must be an object holding all of them. Extraction failures
// wrap ErrMalformed; shape failures wrap ErrSchema.
func Decode(text string, v any, required ...string) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}

	if len(required) > 0 {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return fmt.Errorf("%w: expected an object", ErrSchema)
		}
		var missing []string
		for _, key := range required {
			if _, ok := fields[key]; !ok {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return fmt.Errorf("%w: missing %s", ErrSchema, strings.Join(missing, ", "))
		}
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}
