package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsTemplateParams(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	c := &Client{ServiceID: "svc", TemplateID: "tpl", PublicKey: "pk", Endpoint: srv.URL, HTTPClient: srv.Client()}
	err := c.Send(context.Background(), Message{
		Form:    ConsultationForm,
		Name:    " Jo Bloggs ",
		Email:   "jo@example.com",
		Phone:   "0113 496 0000",
		Service: "Cyber security",
		Body:    "We need an audit.",
	})
	require.NoError(t, err)

	assert.Equal(t, "svc", got.ServiceID)
	assert.Equal(t, "tpl", got.TemplateID)
	assert.Equal(t, "pk", got.UserID)
	assert.Equal(t, "Jo Bloggs", got.TemplateParams["from_name"])
	assert.Equal(t, "jo@example.com", got.TemplateParams["from_email"])
	assert.Equal(t, "0113 496 0000", got.TemplateParams["phone"])
	assert.Equal(t, "Cyber security", got.TemplateParams["service"])
	assert.Equal(t, "We need an audit.", got.TemplateParams["message"])
	assert.Equal(t, "consultation", got.TemplateParams["form"])
}

func TestSendRelayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "The Public Key is invalid", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := &Client{ServiceID: "svc", TemplateID: "tpl", PublicKey: "bad", Endpoint: srv.URL, HTTPClient: srv.Client()}
	err := c.Send(context.Background(), Message{Name: "A", Email: "a@example.com", Body: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestSendValidation(t *testing.T) {
	c := &Client{ServiceID: "svc", TemplateID: "tpl", PublicKey: "pk", Endpoint: "http://127.0.0.1:0"}
	err := c.Send(context.Background(), Message{Name: "", Email: "not-an-email", Body: ""})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Problems, 3)
}

func TestSendNotConfigured(t *testing.T) {
	var c *Client
	assert.ErrorIs(t, c.Send(context.Background(), Message{}), ErrNotConfigured)
	assert.ErrorIs(t, (&Client{ServiceID: "svc"}).Send(context.Background(), Message{}), ErrNotConfigured)
}
