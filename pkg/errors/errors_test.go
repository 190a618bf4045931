package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"client input", NewClientInputError("productId required"), http.StatusBadRequest},
		{"wrapped client input", fmt.Errorf("submit: %w", NewClientInputError("productId required")), http.StatusBadRequest},
		{"conflict", NewConflictError("moved", nil), http.StatusConflict},
		{"remote", NewRemoteAPIError("lookup failed", stderrors.New("status 502")), http.StatusInternalServerError},
		{"integrity", NewIntegrityError("two metafields"), http.StatusInternalServerError},
		{"plain", stderrors.New("dial tcp: refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	remote := NewRemoteAPIError("lookup failed", stderrors.New("shopify api error 401"))

	assert.Equal(t, "productId required", PublicMessage(NewClientInputError("productId required"), "Server error", false))
	assert.Equal(t, "Server error", PublicMessage(remote, "Server error", false))
	assert.Equal(t, remote.Error(), PublicMessage(remote, "Server error", true))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := NewInternalError("write failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "INTERNAL: write failed: boom", err.Error())
	assert.Equal(t, ErrorTypeInternal, TypeOf(cause))
}
