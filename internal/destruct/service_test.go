// internal/destruct/service_test.go
package destruct

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotehire/internal/common/errors"
	"remotehire/internal/common/httpclient"
	"remotehire/internal/common/logger"
	"remotehire/internal/models"
	"remotehire/internal/store"
)

type fakeSNS struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeSNS) Publish(_ context.Context, input *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, *input.Message)
	return &sns.PublishOutput{}, nil
}

func seededStore(t *testing.T, n int) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	ids := []string{"RC-AAAA0001", "RC-BBBB0002", "RC-CCCC0003"}
	for i := 0; i < n; i++ {
		require.NoError(t, st.Append(context.Background(), models.ApplicationRecord{
			AppID:  ids[i],
			Email:  ids[i] + "@example.com",
			Status: models.StatusNew,
		}))
	}
	return st
}

func TestExecuteRejectsWrongSecrets(t *testing.T) {
	st := seededStore(t, 2)
	svc := NewService(st, nil, nil, "", "correct-password", "yes i am sure", logger.NewNoOpLogger())
	ctx := context.Background()

	_, err := svc.Execute(ctx, "wrong", "yes i am sure")
	assert.True(t, errors.Is(err, errors.ErrCodeForbidden))

	_, err = svc.Execute(ctx, "correct-password", "no")
	assert.True(t, errors.Is(err, errors.ErrCodeForbidden))

	records, err := st.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2, "rejected attempts must not delete anything")
}

func TestExecuteUnconfiguredPasswordNeverMatches(t *testing.T) {
	svc := NewService(seededStore(t, 1), nil, nil, "", "", "", logger.NewNoOpLogger())

	_, err := svc.Execute(context.Background(), "", "")
	assert.True(t, errors.Is(err, errors.ErrCodeForbidden))
}

func TestExecuteFinalAnswerIsTrimmedAndCaseFolded(t *testing.T) {
	st := seededStore(t, 1)
	svc := NewService(st, nil, nil, "", "correct-password", "Yes I Am Sure", logger.NewNoOpLogger())

	result, err := svc.Execute(context.Background(), "correct-password", "  yes i am sure  ")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)
}

func TestExecuteWipesAllRecordsAndSkipsRepo(t *testing.T) {
	st := seededStore(t, 3)
	sms := &fakeSNS{}
	svc := NewService(st, nil, sms, "+15550100", "correct-password", "yes", logger.NewNoOpLogger())

	result, err := svc.Execute(context.Background(), "correct-password", "YES")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Deleted)
	assert.Equal(t, 0, result.Failed)

	var repoStatus string
	for _, action := range result.Results {
		if action.Action == "replace-repository" {
			repoStatus = action.Status
		}
	}
	assert.Equal(t, "skipped", repoStatus)

	records, err := st.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)

	require.Len(t, sms.messages, 1)
	assert.Contains(t, sms.messages[0], "3 record(s) deleted")
}

func TestRepoDestroyerRunsFullSequence(t *testing.T) {
	var calls []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"object": map[string]string{"sha": "parent-sha"},
			})
		case r.Method == http.MethodPatch:
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, true, body["force"])
			json.NewEncoder(w).Encode(map[string]string{})
		default:
			json.NewEncoder(w).Encode(map[string]string{"sha": "new-sha"})
		}
	}))
	defer ts.Close()

	d := NewRepoDestroyer(httpclient.NewClient(5*time.Second), ts.URL,
		"token", "owner", "site", "main")
	commitSHA, err := d.Destroy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-sha", commitSHA)

	assert.Equal(t, []string{
		"GET /repos/owner/site/git/ref/heads/main",
		"POST /repos/owner/site/git/blobs",
		"POST /repos/owner/site/git/trees",
		"POST /repos/owner/site/git/commits",
		"PATCH /repos/owner/site/git/refs/heads/main",
	}, calls)
}

func TestRepoDestroyerFailureIsReportedNotFatal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"bad credentials"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	st := seededStore(t, 1)
	d := NewRepoDestroyer(httpclient.NewClient(5*time.Second), ts.URL,
		"bad-token", "owner", "site", "main")
	svc := NewService(st, d, nil, "", "correct-password", "yes", logger.NewNoOpLogger())

	result, err := svc.Execute(context.Background(), "correct-password", "yes")
	require.NoError(t, err, "repo failure never fails the overall execution")
	assert.Equal(t, 1, result.Deleted)

	var repoStatus string
	for _, action := range result.Results {
		if action.Action == "replace-repository" {
			repoStatus = action.Status
		}
	}
	assert.Equal(t, "failed", repoStatus)
}
