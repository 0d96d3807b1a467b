package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// fakeS3 is an in-memory bucket speaking just enough of the S3 REST API for
// GetObject and PutObject with path-style addressing.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(req.URL.Path, "/test-bucket/")
	switch req.Method {
	case http.MethodPut:
		if f.failPut {
			return respond(http.StatusInternalServerError, `<Error><Code>InternalError</Code><Message>boom</Message></Error>`), nil
		}
		body, _ := io.ReadAll(req.Body)
		f.objects[key] = body
		return respond(http.StatusOK, ""), nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			return respond(http.StatusNotFound, `<Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`), nil
		}
		resp := respond(http.StatusOK, string(body))
		resp.Header.Set("Content-Type", "application/json")
		return resp, nil
	}
	return respond(http.StatusNotImplemented, ""), nil
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Header:        http.Header{"Content-Type": {"application/xml"}},
		Body:          io.NopCloser(bytes.NewReader([]byte(body))),
		ContentLength: int64(len(body)),
	}
}

func newTestStore(t *testing.T) (*Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}}
	s, err := New(context.Background(), Config{
		Bucket:          "test-bucket",
		Prefix:          "qbank/",
		Endpoint:        "https://mock.s3.local",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
		MaxAttempts:     1,
		HTTPClient:      &http.Client{Transport: fake},
	})
	require.NoError(t, err)
	return s, fake
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestStore(t)

	_, err := s.Load(ctx, valueobjects.DatasetQuestions)
	assert.True(t, pkgerrors.IsNotFound(err))

	snap := aggregates.EmptySnapshot().Add("android").Add("kotlin")
	require.NoError(t, s.Save(ctx, valueobjects.DatasetQuestions, snap))

	fake.mu.Lock()
	_, stored := fake.objects["qbank/questions.json"]
	fake.mu.Unlock()
	assert.True(t, stored)

	got, err := s.Load(ctx, valueobjects.DatasetQuestions)
	require.NoError(t, err)
	assert.True(t, got.Equal(snap))
}

func TestStore_SaveFailure(t *testing.T) {
	s, fake := newTestStore(t)
	fake.failPut = true

	err := s.Save(context.Background(), valueobjects.DatasetKnowledge, aggregates.EmptySnapshot())
	assert.True(t, pkgerrors.IsPersistence(err))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}
