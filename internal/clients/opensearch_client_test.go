package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSearchClient_IndexDocument(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "pw", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_index":"sentiment-results","_id":"run-0","result":"created"}`))
	}))
	defer srv.Close()

	c, err := NewOpenSearchClient(context.Background(), OpenSearchOptions{
		Endpoint: srv.URL,
		Username: "admin",
		Password: "pw",
	})
	require.NoError(t, err)

	err = c.IndexDocument(context.Background(), "sentiment-results", "run-0", []byte(`{"sentiment":"positive"}`))
	require.NoError(t, err)
	assert.Equal(t, "/sentiment-results/_doc/run-0", gotPath)
	assert.Equal(t, "positive", gotBody["sentiment"])
}

func TestOpenSearchClient_IndexDocumentError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"mapper_parsing_exception","reason":"failed to parse"},"status":400}`))
	}))
	defer srv.Close()

	c, err := NewOpenSearchClient(context.Background(), OpenSearchOptions{Endpoint: srv.URL})
	require.NoError(t, err)

	err = c.IndexDocument(context.Background(), "sentiment-results", "run-0", []byte(`{}`))
	assert.Error(t, err)
}

func TestSigV4Transport_SignsRequest(t *testing.T) {
	var auth, hash, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		hash = r.Header.Get("X-Amz-Content-Sha256")
		b, _ := io.ReadAll(r.Body)
		body = string(b)
	}))
	defer srv.Close()

	creds := credentials.NewStaticCredentialsProvider("AKID", "SECRET", "")
	client := &http.Client{Transport: NewSigV4Transport(aws.NewCredentialsCache(creds), v4.NewSigner(), "us-west-2", "es")}

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/idx/_doc/1", strings.NewReader(`{"a":1}`))
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.True(t, strings.HasPrefix(auth, "AWS4-HMAC-SHA256 Credential=AKID/"), auth)
	assert.Contains(t, auth, "/us-west-2/es/aws4_request")
	assert.Len(t, hash, 64)
	assert.Equal(t, `{"a":1}`, body)
}
