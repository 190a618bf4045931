package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format stored on every review.
const DateLayout = "2006-01-02"

// ProductID accepts either a JSON number or a JSON string and keeps the raw
// text so the caller's value can be validated later.
type ProductID string

func (p *ProductID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*p = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ProductID(strings.TrimSpace(s))
		return nil
	}
	*p = ProductID(raw)
	return nil
}

// IsBlank reports whether the id is absent or one of the falsy values a
// storefront script sends when it has no product in scope.
func (p ProductID) IsBlank() bool {
	switch string(p) {
	case "", "0", "false":
		return true
	}
	return false
}

// Int64 parses the id as the numeric owner id used by the platform.
func (p ProductID) Int64() (int64, error) {
	return strconv.ParseInt(string(p), 10, 64)
}

// Submission is the inbound body of POST /reviews. Free-text fields are kept
// as the caller's raw JSON so any value is echoed back unchanged.
type Submission struct {
	ProductID ProductID       `json:"productId"`
	Name      json.RawMessage `json:"name"`
	Email     json.RawMessage `json:"email"`
	Rating    json.RawMessage `json:"rating"`
	Title     json.RawMessage `json:"title"`
	Text      json.RawMessage `json:"text"`
	Verified  json.RawMessage `json:"verified"`
	Photo     json.RawMessage `json:"photo"`
	Video     json.RawMessage `json:"video"`
}

// VerifiedTruthy applies loose truthiness to the caller's verified value:
// null, false, 0, "" and absent are false, anything else is true.
func (s *Submission) VerifiedTruthy() bool {
	return truthy(s.Verified)
}

// VerifiedLiteral reports whether the caller sent exactly JSON true.
func (s *Submission) VerifiedLiteral() bool {
	return string(bytes.TrimSpace(s.Verified)) == "true"
}

// Review is one entry of the stored collection. Field order is the
// serialized key order. Absent fields are omitted; an explicit null is kept.
type Review struct {
	Name     json.RawMessage `json:"name,omitempty"`
	Email    json.RawMessage `json:"email,omitempty"`
	Rating   json.RawMessage `json:"rating,omitempty"`
	Title    json.RawMessage `json:"title,omitempty"`
	Text     json.RawMessage `json:"text,omitempty"`
	Verified bool            `json:"verified"`
	Date     string          `json:"date"`
	Photo    json.RawMessage `json:"photo"`
	Video    json.RawMessage `json:"video"`
}

// NewReview builds the canonical record for a submission. now is converted to
// UTC before the date is taken.
func NewReview(sub *Submission, verified bool, now time.Time) *Review {
	return &Review{
		Name:     clone(sub.Name),
		Email:    clone(sub.Email),
		Rating:   clone(sub.Rating),
		Title:    clone(sub.Title),
		Text:     clone(sub.Text),
		Verified: verified,
		Date:     now.UTC().Format(DateLayout),
		Photo:    orEmptyString(sub.Photo),
		Video:    orEmptyString(sub.Video),
	}
}

// RatingText returns the rating as plain text for logs and archives.
func (r *Review) RatingText() string {
	return PlainText(r.Rating)
}

// Body joins title and text, whichever are present.
func (r *Review) Body() string {
	var parts []string
	if title := PlainText(r.Title); title != "" {
		parts = append(parts, title)
	}
	if text := PlainText(r.Text); text != "" {
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n")
}

// PlainText renders a raw JSON value as text. Strings are unquoted, null and
// absent values are empty, anything else keeps its JSON form.
func PlainText(raw json.RawMessage) string {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 || string(v) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(v)
}

func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return false
	}
	switch v[0] {
	case 'n', 'f':
		return false
	case 't', '[', '{':
		return true
	case '"':
		return len(v) > 2
	}
	f, err := strconv.ParseFloat(string(v), 64)
	return err == nil && f != 0
}

func clone(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}

// orEmptyString keeps truthy values and replaces falsy or absent ones with "".
func orEmptyString(raw json.RawMessage) json.RawMessage {
	if !truthy(raw) {
		return json.RawMessage(`""`)
	}
	return clone(raw)
}
