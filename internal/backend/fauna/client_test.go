package fauna

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ForwardsRequestWithBearer(t *testing.T) {
	var gotAuth, gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"allTasks":{"data":[{"_id":"1","title":"Buy milk","completed":false}]}}}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret", WithHTTPClient(srv.Client()))
	data, err := c.Do(context.Background(), Request{
		Query:     "query AllTasksQuery { allTasks { data { _id title completed } } }",
		Variables: json.RawMessage(`{"title":"x","completed":true}`),
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.JSONEq(t, `{"query":"query AllTasksQuery { allTasks { data { _id title completed } } }","variables":{"title":"x","completed":true}}`, gotBody)
	assert.Equal(t, `{"allTasks":{"data":[{"_id":"1","title":"Buy milk","completed":false}]}}`, string(data))
}

func TestClient_OmitsEmptyVariables(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		io.WriteString(w, `{"data":{}}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "k").Do(context.Background(), Request{Query: "{ x }"})
	require.NoError(t, err)
	assert.NotContains(t, body, "variables")
}

func TestClient_EmptyCredentialStillSendsHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"data":null}`)
	}))
	defer srv.Close()

	data, err := New(srv.URL, "").Do(context.Background(), Request{Query: "{ x }"})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
	assert.Equal(t, "Bearer", strings.TrimSpace(gotAuth))
}

func TestClient_GraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":null,"errors":[{"message":"Instance not found"},{"message":"second"}]}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "k").Do(context.Background(), Request{Query: "{ x }"})
	require.Error(t, err)

	var cerr *ClientError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, http.StatusOK, cerr.StatusCode)
	assert.Len(t, cerr.Errors, 2)
	assert.Equal(t, "Instance not found", err.Error())
}

func TestClient_GraphQLErrorKeepsExtensions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":null,"errors":[{"message":"Invalid database secret.","extensions":{"code":"unauthorized"}}]}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "k").Do(context.Background(), Request{Query: "{ x }"})
	var cerr *ClientError
	require.True(t, errors.As(err, &cerr))
	require.Len(t, cerr.Errors, 1)
	assert.Equal(t, "unauthorized", cerr.Errors[0].Extensions["code"])
}

func TestClient_VariablesForwardedVerbatim(t *testing.T) {
	var got struct {
		Variables map[string]json.RawMessage `json:"variables"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		io.WriteString(w, `{"data":{}}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "k").Do(context.Background(), Request{
		Query:     "{ x }",
		Variables: json.RawMessage(`{"id":"350823490012","n":12345678901234567890}`),
	})
	require.NoError(t, err)
	assert.Equal(t, `"350823490012"`, string(got.Variables["id"]))
	assert.Equal(t, `12345678901234567890`, string(got.Variables["n"]))
}

func TestClient_InvalidVariables(t *testing.T) {
	_, err := New("http://127.0.0.1:0", "k").Do(context.Background(), Request{
		Query:     "{ x }",
		Variables: json.RawMessage(`[1,2]`),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid variables")
}

func TestClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"errors":[{"message":"Invalid database secret."}]}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "bad").Do(context.Background(), Request{Query: "{ x }"})
	require.Error(t, err)
	assert.Equal(t, "Invalid database secret.", err.Error())

	var cerr *ClientError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, http.StatusUnauthorized, cerr.StatusCode)
}

func TestClient_NonOKStatusWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "k").Do(context.Background(), Request{Query: "{ x }"})
	require.Error(t, err)
	assert.Equal(t, "GraphQL Error (Code: 502)", err.Error())
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>oops</html>`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "k").Do(context.Background(), Request{Query: "{ x }"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid response body")
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, "k", WithTimeout(20*time.Millisecond)).Do(context.Background(), Request{Query: "{ x }"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
