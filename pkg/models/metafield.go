package models

import (
	"encoding/json"
	"fmt"
)

const (
	OwnerResourceProduct = "product"
	MetafieldTypeJSON    = "json"
)

// Metafield is a metafield as returned by the Admin REST API. Value is kept
// raw because the platform returns json-typed values as an encoded string.
type Metafield struct {
	ID            int64           `json:"id"`
	Namespace     string          `json:"namespace"`
	Key           string          `json:"key"`
	Value         json.RawMessage `json:"value"`
	Type          string          `json:"type"`
	OwnerID       int64           `json:"owner_id"`
	OwnerResource string          `json:"owner_resource"`
	CreatedAt     string          `json:"created_at,omitempty"`
	UpdatedAt     string          `json:"updated_at,omitempty"`
}

// HasID reports whether the record can be addressed for an update.
func (m *Metafield) HasID() bool {
	return m != nil && m.ID != 0
}

// Version identifies the state of the record as last seen.
func (m *Metafield) Version() string {
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%d@%s", m.ID, m.UpdatedAt)
}

// MetafieldInput is the body sent on create and update.
type MetafieldInput struct {
	ID            int64  `json:"id,omitempty"`
	Namespace     string `json:"namespace,omitempty"`
	Key           string `json:"key,omitempty"`
	Type          string `json:"type"`
	Value         string `json:"value"`
	OwnerResource string `json:"owner_resource,omitempty"`
	OwnerID       int64  `json:"owner_id,omitempty"`
}

type MetafieldEnvelope struct {
	Metafield MetafieldInput `json:"metafield"`
}

type MetafieldResponse struct {
	Metafield *Metafield `json:"metafield"`
}

type MetafieldListResponse struct {
	Metafields []Metafield `json:"metafields"`
}
