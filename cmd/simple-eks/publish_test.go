package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miztiik/simple-eks-cluster/internal/publish"
)

func TestRunPublish(t *testing.T) {
	var mu sync.Mutex
	var puts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if r.Method == http.MethodPut {
			puts = append(puts, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	opts := publishOptions{
		s3: publish.Options{
			Bucket:    "templates",
			Prefix:    "simple-eks",
			Region:    "eu-west-1",
			Endpoint:  server.URL,
			AccessKey: "test-key",
			SecretKey: "test-secret",
			PathStyle: true,
		},
		format: "json",
	}

	var out bytes.Buffer
	require.NoError(t, runPublish(context.Background(), testGlobals(t, ""), opts, &out))

	mu.Lock()
	defer mu.Unlock()
	sort.Strings(puts)
	assert.Equal(t, []string{
		"/templates/simple-eks/eks-cluster-stack.json",
		"/templates/simple-eks/eks-cluster-vpc-stack.json",
	}, puts)
	assert.Contains(t, out.String(), "eks-cluster-stack: "+server.URL+"/templates/simple-eks/eks-cluster-stack.json")
}

func TestRunPublish_RequiresBucket(t *testing.T) {
	var out bytes.Buffer
	err := runPublish(context.Background(), testGlobals(t, ""), publishOptions{format: "json"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")
}

func TestNewPublishCmd(t *testing.T) {
	cmd := newPublishCmd(&globals{})

	for _, name := range []string{"bucket", "prefix", "region", "endpoint", "path-style", "format", "create-bucket"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing --%s flag", name)
		}
	}
}
