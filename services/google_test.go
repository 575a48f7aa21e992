package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func stubValidate(payload *idtoken.Payload, err error) validateFunc {
	return func(_ context.Context, _, audience string) (*idtoken.Payload, error) {
		if audience != "client-id" {
			return nil, errors.New("audience mismatch")
		}
		return payload, err
	}
}

func TestNewGoogleVerifierWithoutClientID(t *testing.T) {
	assert.Nil(t, NewGoogleVerifier(""))
	assert.NotNil(t, NewGoogleVerifier("client-id"))
}

func TestGoogleVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		v := &idTokenVerifier{clientID: "client-id", validate: stubValidate(&idtoken.Payload{
			Subject: "10769150350006150715113082367",
			Claims: map[string]interface{}{
				"email":          "ana@example.com",
				"email_verified": true,
				"name":           "Ana Diaz",
				"picture":        "https://lh3.googleusercontent.com/a/photo.jpg",
			},
		}, nil)}

		id, err := v.Verify(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, "10769150350006150715113082367", id.Subject)
		assert.Equal(t, "ana@example.com", id.Email)
		assert.Equal(t, "Ana Diaz", id.Name)
		assert.Equal(t, "https://lh3.googleusercontent.com/a/photo.jpg", id.Picture)
	})

	t.Run("unverified email", func(t *testing.T) {
		v := &idTokenVerifier{clientID: "client-id", validate: stubValidate(&idtoken.Payload{
			Claims: map[string]interface{}{"email": "ana@example.com", "email_verified": false},
		}, nil)}
		_, err := v.Verify(ctx, "token")
		assert.Error(t, err)
	})

	t.Run("no email", func(t *testing.T) {
		v := &idTokenVerifier{clientID: "client-id", validate: stubValidate(&idtoken.Payload{Claims: map[string]interface{}{}}, nil)}
		_, err := v.Verify(ctx, "token")
		assert.Error(t, err)
	})

	t.Run("rejected token", func(t *testing.T) {
		v := &idTokenVerifier{clientID: "client-id", validate: stubValidate(nil, errors.New("idtoken: token expired"))}
		_, err := v.Verify(ctx, "token")
		assert.ErrorContains(t, err, "token expired")
	})
}
