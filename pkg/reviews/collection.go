package reviews

import (
	"bytes"
	"encoding/json"

	apperrors "github.com/aranyat/reviews-api/pkg/errors"
)

// DecodeCollection turns a stored metafield value into its review entries.
// The platform returns json-typed values as an encoded string, but a bare
// array is accepted too. Absent or empty values are an empty collection;
// anything that is not a JSON array is a serialization error.
func DecodeCollection(value json.RawMessage) ([]json.RawMessage, error) {
	v := bytes.TrimSpace(value)
	if len(v) == 0 || string(v) == "null" {
		return nil, nil
	}

	if v[0] == '"' {
		var inner string
		if err := json.Unmarshal(v, &inner); err != nil {
			return nil, apperrors.NewSerializationError("stored value is not a valid string", err)
		}
		v = bytes.TrimSpace([]byte(inner))
		if len(v) == 0 {
			return nil, nil
		}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(v, &entries); err != nil {
		return nil, apperrors.NewSerializationError("stored value is not a JSON array", err)
	}
	return entries, nil
}

// Prepend returns a new collection with entry in front, newest first.
func Prepend(collection []json.RawMessage, entry json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(collection)+1)
	out = append(out, entry)
	return append(out, collection...)
}

// EncodeCollection serializes the collection into the string stored in the metafield.
func EncodeCollection(collection []json.RawMessage) (string, error) {
	if collection == nil {
		collection = []json.RawMessage{}
	}
	data, err := json.Marshal(collection)
	if err != nil {
		return "", apperrors.NewSerializationError("encode review collection", err)
	}
	return string(data), nil
}
