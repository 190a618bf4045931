package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawString(s string) json.RawMessage {
	data, _ := json.Marshal(s)
	return data
}

func TestProductID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		body  string
		want  ProductID
		blank bool
	}{
		{`{"productId":123}`, "123", false},
		{`{"productId":"8123456789012"}`, "8123456789012", false},
		{`{"productId":" 42 "}`, "42", false},
		{`{"productId":null}`, "", true},
		{`{"productId":0}`, "0", true},
		{`{"productId":""}`, "", true},
		{`{}`, "", true},
	}

	for _, tt := range tests {
		var sub Submission
		require.NoError(t, json.Unmarshal([]byte(tt.body), &sub), tt.body)
		assert.Equal(t, tt.want, sub.ProductID, tt.body)
		assert.Equal(t, tt.blank, sub.ProductID.IsBlank(), tt.body)
	}
}

func TestProductID_Int64(t *testing.T) {
	id, err := ProductID("8123456789012").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(8123456789012), id)

	_, err = ProductID("abc").Int64()
	assert.Error(t, err)
}

func TestSubmission_VerifiedTruthy(t *testing.T) {
	tests := map[string]bool{
		``:        false,
		`null`:    false,
		`false`:   false,
		`0`:       false,
		`0.0`:     false,
		`""`:      false,
		`true`:    true,
		`1`:       true,
		`"false"`: true,
		`"yes"`:   true,
		`[]`:      true,
		`{}`:      true,
	}

	for raw, want := range tests {
		sub := Submission{Verified: json.RawMessage(raw)}
		assert.Equal(t, want, sub.VerifiedTruthy(), "verified=%q", raw)
	}
}

func TestSubmission_VerifiedLiteral(t *testing.T) {
	assert.True(t, (&Submission{Verified: json.RawMessage(`true`)}).VerifiedLiteral())
	assert.False(t, (&Submission{Verified: json.RawMessage(`"true"`)}).VerifiedLiteral())
	assert.False(t, (&Submission{Verified: json.RawMessage(`1`)}).VerifiedLiteral())
	assert.False(t, (&Submission{}).VerifiedLiteral())
}

func TestNewReview_KeyOrderAndDefaults(t *testing.T) {
	sub := &Submission{
		ProductID: "123",
		Name:      rawString("A"),
		Rating:    json.RawMessage(`5`),
		Text:      rawString("Great"),
	}
	now := time.Date(2026, 10, 19, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	review := NewReview(sub, false, now)
	data, err := json.Marshal(review)
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"A","rating":5,"text":"Great","verified":false,"date":"2026-10-19","photo":"","video":""}`, string(data))
	assert.Equal(t, `{"name":"A","rating":5,"text":"Great","verified":false,"date":"2026-10-19","photo":"","video":""}`, string(data))
}

func TestNewReview_DateIsUTC(t *testing.T) {
	// 01:00 on the 20th in UTC+5:30 is still the 19th in UTC.
	now := time.Date(2026, 10, 20, 1, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	review := NewReview(&Submission{}, true, now)
	assert.Equal(t, "2026-10-19", review.Date)
}

func TestNewReview_KeepsRatingVerbatim(t *testing.T) {
	review := NewReview(&Submission{Rating: json.RawMessage(`"4.5"`)}, false, time.Now())
	data, err := json.Marshal(review)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rating":"4.5"`)
	assert.Equal(t, "4.5", review.RatingText())
}

func TestReview_Body(t *testing.T) {
	review := &Review{Title: rawString("Lovely"), Text: rawString("Soft fabric")}
	assert.Equal(t, "Lovely\nSoft fabric", review.Body())
	assert.Equal(t, "", (&Review{}).Body())
}

func TestNewReview_EchoesNonStringFreeText(t *testing.T) {
	var sub Submission
	require.NoError(t, json.Unmarshal([]byte(`{"productId":1,"name":42,"email":["a@b.c"],"title":true,"text":{"k":"v"}}`), &sub))

	data, err := json.Marshal(NewReview(&sub, false, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, `{"name":42,"email":["a@b.c"],"title":true,"text":{"k":"v"},"verified":false,"date":"2026-10-19","photo":"","video":""}`, string(data))
}

func TestNewReview_KeepsExplicitNull(t *testing.T) {
	var sub Submission
	require.NoError(t, json.Unmarshal([]byte(`{"productId":1,"name":null,"rating":null}`), &sub))

	data, err := json.Marshal(NewReview(&sub, false, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, `{"name":null,"rating":null,"verified":false,"date":"2026-10-19","photo":"","video":""}`, string(data))
}

func TestNewReview_PhotoVideoFalsyBecomeEmptyString(t *testing.T) {
	tests := map[string]string{
		`{}`:                                `"photo":"","video":""`,
		`{"photo":null,"video":false}`:      `"photo":"","video":""`,
		`{"photo":0,"video":""}`:            `"photo":"","video":""`,
		`{"photo":"p.jpg","video":"v.mp4"}`: `"photo":"p.jpg","video":"v.mp4"`,
		`{"photo":["p.jpg"],"video":1}`:     `"photo":["p.jpg"],"video":1`,
	}

	for body, want := range tests {
		var sub Submission
		require.NoError(t, json.Unmarshal([]byte(body), &sub), body)
		data, err := json.Marshal(NewReview(&sub, false, time.Now()))
		require.NoError(t, err)
		assert.Contains(t, string(data), want, body)
	}
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "", PlainText(nil))
	assert.Equal(t, "", PlainText(json.RawMessage(`null`)))
	assert.Equal(t, "hi", PlainText(json.RawMessage(`"hi"`)))
	assert.Equal(t, "42", PlainText(json.RawMessage(`42`)))
	assert.Equal(t, `{"k":"v"}`, PlainText(json.RawMessage(`{"k":"v"}`)))
}

func TestMetafield_Version(t *testing.T) {
	var missing *Metafield
	assert.False(t, missing.HasID())
	assert.Equal(t, "", missing.Version())

	mf := &Metafield{ID: 99, UpdatedAt: "2026-10-19T10:00:00Z"}
	assert.True(t, mf.HasID())
	assert.Equal(t, "99@2026-10-19T10:00:00Z", mf.Version())
}
