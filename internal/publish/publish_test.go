package publish

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPublisher creates a Publisher backed by a test HTTP server that
// receives real S3 REST requests.
func testPublisher(t *testing.T, handler http.Handler, opts Options) *Publisher {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       "eu-west-1",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
	})

	if opts.Bucket == "" {
		opts.Bucket = "templates"
	}
	return newPublisher(client, opts, "eu-west-1")
}

func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Options{})
	require.Error(t, err)
}

func TestNew_StaticCredentials(t *testing.T) {
	p, err := New(context.Background(), Options{
		Bucket:    "templates",
		Region:    "eu-west-1",
		AccessKey: "key",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://templates.s3.eu-west-1.amazonaws.com/eks-cluster-stack.json", p.URL(p.Key("eks-cluster-stack", "json")))
}

func TestPublisher_Key(t *testing.T) {
	p := newPublisher(nil, Options{Bucket: "templates", Prefix: "/releases/v1/"}, "us-east-1")
	assert.Equal(t, "releases/v1/eks-cluster-stack.yaml", p.Key("eks-cluster-stack", "yaml"))

	p = newPublisher(nil, Options{Bucket: "templates"}, "us-east-1")
	assert.Equal(t, "eks-cluster-vpc-stack.json", p.Key("eks-cluster-vpc-stack", "json"))
}

func TestPublisher_URL(t *testing.T) {
	p := newPublisher(nil, Options{Bucket: "templates", Endpoint: "http://localhost:9000/"}, "us-east-1")
	assert.Equal(t, "http://localhost:9000/templates/a.json", p.URL("a.json"))

	p = newPublisher(nil, Options{Bucket: "templates"}, "")
	assert.Equal(t, "https://templates.s3.amazonaws.com/a.json", p.URL("a.json"))
}

func TestPublisher_Publish(t *testing.T) {
	var mu sync.Mutex
	var gotPath, gotBody, gotType string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			xmlResponse(w, http.StatusMethodNotAllowed, "")
			return
		}
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotPath = r.URL.Path
		gotBody = string(body)
		gotType = r.Header.Get("Content-Type")
		mu.Unlock()
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	})

	p := testPublisher(t, handler, Options{Prefix: "v1"})
	url, err := p.Publish(context.Background(), "eks-cluster-stack", "json", []byte(`{"Resources":{}}`))
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/templates/v1/eks-cluster-stack.json", gotPath)
	assert.Equal(t, `{"Resources":{}}`, gotBody)
	assert.Equal(t, "application/json", gotType)
	assert.True(t, strings.HasSuffix(url, "/v1/eks-cluster-stack.json"))
}

func TestPublisher_Publish_Error(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xmlResponse(w, http.StatusForbidden, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>AccessDenied</Code>
  <Message>Access Denied</Message>
</Error>`)
	})

	p := testPublisher(t, handler, Options{})
	_, err := p.Publish(context.Background(), "eks-cluster-stack", "yaml", []byte("Resources: {}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to put object eks-cluster-stack.yaml in bucket templates")
}

func TestPublisher_EnsureBucket(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			body, _ := io.ReadAll(r.Body)
			if !strings.Contains(string(body), "eu-west-1") {
				xmlResponse(w, http.StatusBadRequest, "")
				return
			}
			xmlResponse(w, http.StatusOK, `<?xml version="1.0" encoding="UTF-8"?><CreateBucketResult/>`)
			return
		}
		xmlResponse(w, http.StatusNotFound, "")
	})

	p := testPublisher(t, handler, Options{})
	require.NoError(t, p.EnsureBucket(context.Background()))
}

func TestPublisher_EnsureBucket_AlreadyOwned(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xmlResponse(w, http.StatusConflict, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>BucketAlreadyOwnedByYou</Code>
  <Message>Your previous request to create the named bucket succeeded and you already own it.</Message>
  <BucketName>templates</BucketName>
</Error>`)
	})

	p := testPublisher(t, handler, Options{})
	assert.NoError(t, p.EnsureBucket(context.Background()))
}

func TestPublisher_List(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "v1/", r.URL.Query().Get("prefix"))
		xmlResponse(w, http.StatusOK, `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>templates</Name>
  <Prefix>v1/</Prefix>
  <KeyCount>2</KeyCount>
  <IsTruncated>false</IsTruncated>
  <Contents><Key>v1/eks-cluster-stack.json</Key></Contents>
  <Contents><Key>v1/eks-cluster-vpc-stack.json</Key></Contents>
</ListBucketResult>`)
	})

	p := testPublisher(t, handler, Options{Prefix: "v1"})
	keys, err := p.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"v1/eks-cluster-stack.json", "v1/eks-cluster-vpc-stack.json"}, keys)
}
