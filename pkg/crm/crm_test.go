package crm

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RoundTripFunc func(req *http.Request) *http.Response

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func response(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader("")), Header: make(http.Header)}
}

func validApplication() JobApplication {
	return JobApplication{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+44 20 7946 0000",
		Position:  "Backend Engineer",
		ResumeURL: "https://example.com/ada.pdf",
	}
}

func TestEncode(t *testing.T) {
	values, err := Encode(ContactRequest{FirstName: "Ada", LastName: "L", Email: "a@b.co", Message: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", values.Get("First Name"))
	assert.Equal(t, "Hi", values.Get("Description"))
	assert.Equal(t, "Contact Form", values.Get("Lead Source"))
	_, hasPhone := values["Phone"]
	assert.False(t, hasPhone)
}

func TestValidate(t *testing.T) {
	assert.Nil(t, validApplication().Validate())

	errs := JobApplication{Email: "nope", Phone: "12", ResumeURL: "ftp://x"}.Validate()
	require.NotNil(t, errs)
	assert.Equal(t, "This field is required", errs["firstName"])
	assert.Equal(t, "Enter a valid email address", errs["email"])
	assert.Equal(t, "Enter a valid phone number", errs["phone"])
	assert.Equal(t, "Enter a valid link", errs["resumeUrl"])
	assert.Contains(t, errs.Error(), "email: Enter a valid email address")
}

func TestSubmit(t *testing.T) {
	var got *http.Request
	c := NewClient("https://crm.example/webhook?token=abc", zerolog.Nop())
	c.SetHTTPClient(&http.Client{Transport: RoundTripFunc(func(req *http.Request) *http.Response {
		got = req
		return response(http.StatusOK)
	})})

	require.NoError(t, c.Submit(context.Background(), validApplication()))
	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	q := got.URL.Query()
	assert.Equal(t, "abc", q.Get("token"))
	assert.Equal(t, "Backend Engineer", q.Get("Position Applied"))
	assert.Equal(t, "Careers", q.Get("Lead Source"))
}

func TestSubmit_blockedByValidation(t *testing.T) {
	c := NewClient("https://crm.example/webhook", zerolog.Nop())
	c.SetHTTPClient(&http.Client{Transport: RoundTripFunc(func(req *http.Request) *http.Response {
		t.Fatal("invalid application must not be sent")
		return nil
	})})

	app := validApplication()
	app.Email = ""
	err := c.Submit(context.Background(), app)
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "email")
}

func TestSubmit_rejected(t *testing.T) {
	c := NewClient("https://crm.example/webhook", zerolog.Nop())
	c.SetHTTPClient(&http.Client{Transport: RoundTripFunc(func(req *http.Request) *http.Response {
		return response(http.StatusBadGateway)
	})})
	err := c.Submit(context.Background(), NewsletterSignup{Email: "a@b.co"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=502")

	assert.ErrorIs(t, NewClient("", zerolog.Nop()).Submit(context.Background(), NewsletterSignup{}), constants.ErrNoBaseURL)
}
