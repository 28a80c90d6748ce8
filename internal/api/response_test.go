package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleResponse_Success(t *testing.T) {
	var result []Dialog
	err := HandleResponse(RawResponse{
		StatusCode: 200,
		Body:       []byte(`[{"dialog_id": 1, "anketa_id": "9", "name": "Ann", "count": 2}, {"dialog_id": 2, "name": "Bob"}]`),
	}, &result, HandleOptions{})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, FlexInt(9), result[0].UserID)
	assert.Equal(t, 2, UnreadTotal(result))
}

func TestHandleResponse_EmptyBodyOrNilResult(t *testing.T) {
	assert.NoError(t, HandleResponse(RawResponse{StatusCode: 204}, &[]User{}, HandleOptions{}))
	assert.NoError(t, HandleResponse(RawResponse{StatusCode: 200, Body: []byte(`garbage`)}, nil, HandleOptions{}))
}

func TestHandleResponse_DecodingError(t *testing.T) {
	var user User
	err := HandleResponse(RawResponse{StatusCode: 200, Body: []byte(`[1,2]`)}, &user, HandleOptions{RequestID: "r"})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, ErrDecoding, apiErr.Kind)
	assert.Equal(t, "r", apiErr.RequestID)
}

func TestHandleResponse_ForceLogout(t *testing.T) {
	tests := []struct {
		name        string
		resp        RawResponse
		forceLogout bool
		wantLogouts int
		wantKind    ErrorKind
	}{
		{"401 with force logout", RawResponse{StatusCode: 401}, true, 1, ErrInvalidCredentials},
		{"401 without force logout", RawResponse{StatusCode: 401}, false, 0, ErrInvalidCredentials},
		{"404 never logs out", RawResponse{StatusCode: 404}, true, 0, ErrNotFound},
		{"cancellation short-circuits", RawResponse{StatusCode: 401, Err: fmt.Errorf("do: %w", context.Canceled)}, true, 0, ErrCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &fakeSession{token: "abc"}
			err := HandleResponse(tt.resp, nil, HandleOptions{ForceLogout: tt.forceLogout, Session: session})
			assert.Equal(t, tt.wantKind, KindOf(err))
			assert.Equal(t, tt.wantLogouts, session.logoutCount())
		})
	}
}

func TestHandleResponse_NilSession(t *testing.T) {
	err := HandleResponse(RawResponse{StatusCode: 401}, nil, HandleOptions{ForceLogout: true})
	assert.True(t, IsUnauthorized(err))
}
