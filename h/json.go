package h

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

type JsonValue struct {
	value string
}

func NewJsonValue(value string) JsonValue {
	return JsonValue{value: value}
}

func (j JsonValue) Get(path string) any {
	value := gjson.Get(j.value, path)
	if value.Exists() {
		return value.Value()
	}
	return nil
}

func ToJsonString(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func FromJsonString(source string, target any) error {
	return json.Unmarshal([]byte(source), target)
}

// FlatJsonEntries iterates the top-level members of a flat JSON object in
// document order, including duplicate keys, which encoding/json would
// silently collapse. Translation files are flat, so this is all the lint
// tool needs to spot duplicates. Returns false unless data is a complete,
// valid JSON object; gjson alone would walk a truncated document partially.
func FlatJsonEntries(data []byte, fn func(key string, value gjson.Result) bool) bool {
	if !gjson.ValidBytes(data) {
		return false
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return false
	}
	parsed.ForEach(func(key, value gjson.Result) bool {
		return fn(key.String(), value)
	})
	return true
}
