// internal/destruct/github.go
package destruct

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"remotehire/internal/common/errors"
	"remotehire/internal/common/httpclient"
)

// terminatedPage is the sole content left behind after a repository wipe.
const terminatedPage = `<!DOCTYPE html>
<html>
<head><title>Terminated</title></head>
<body style="background:#000;color:#f00;font-family:monospace;text-align:center;padding-top:20vh">
<h1>SITE TERMINATED</h1>
<p>This project has been permanently shut down.</p>
</body>
</html>
`

// RepoDestroyer replaces a GitHub repository's branch content with a single
// static page through the git data API: read the branch tip, create a blob,
// a tree holding only that blob, a commit, then force-move the branch ref.
type RepoDestroyer struct {
	client  *httpclient.Client
	baseURL string
	token   string
	owner   string
	repo    string
	branch  string
}

func NewRepoDestroyer(client *httpclient.Client, baseURL, token, owner, repo, branch string) *RepoDestroyer {
	if branch == "" {
		branch = "main"
	}
	return &RepoDestroyer{
		client:  client,
		baseURL: baseURL,
		token:   token,
		owner:   owner,
		repo:    repo,
		branch:  branch,
	}
}

// Configured reports whether a credential and target repository are present.
// Unconfigured destroyers are skipped, never failed.
func (d *RepoDestroyer) Configured() bool {
	return d.token != "" && d.owner != "" && d.repo != ""
}

// Destroy runs the full replacement sequence and returns the new commit SHA.
func (d *RepoDestroyer) Destroy(ctx context.Context) (string, error) {
	if !d.Configured() {
		return "", errors.NewTransportUnavailableError("github")
	}

	parentSHA, err := d.getBranchTip(ctx)
	if err != nil {
		return "", err
	}
	blobSHA, err := d.createBlob(ctx, terminatedPage)
	if err != nil {
		return "", err
	}
	treeSHA, err := d.createTree(ctx, blobSHA)
	if err != nil {
		return "", err
	}
	commitSHA, err := d.createCommit(ctx, "Terminated", treeSHA, parentSHA)
	if err != nil {
		return "", err
	}
	if err := d.forceUpdateRef(ctx, commitSHA); err != nil {
		return "", err
	}
	return commitSHA, nil
}

func (d *RepoDestroyer) getBranchTip(ctx context.Context) (string, error) {
	var out struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}
	path := fmt.Sprintf("/repos/%s/%s/git/ref/heads/%s", d.owner, d.repo, d.branch)
	if err := d.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return out.Object.SHA, nil
}

func (d *RepoDestroyer) createBlob(ctx context.Context, content string) (string, error) {
	body := map[string]string{
		"content":  base64.StdEncoding.EncodeToString([]byte(content)),
		"encoding": "base64",
	}
	var out struct {
		SHA string `json:"sha"`
	}
	path := fmt.Sprintf("/repos/%s/%s/git/blobs", d.owner, d.repo)
	if err := d.call(ctx, http.MethodPost, path, body, &out); err != nil {
		return "", err
	}
	return out.SHA, nil
}

func (d *RepoDestroyer) createTree(ctx context.Context, blobSHA string) (string, error) {
	body := map[string]interface{}{
		"tree": []map[string]string{
			{
				"path": "index.html",
				"mode": "100644",
				"type": "blob",
				"sha":  blobSHA,
			},
		},
	}
	var out struct {
		SHA string `json:"sha"`
	}
	path := fmt.Sprintf("/repos/%s/%s/git/trees", d.owner, d.repo)
	if err := d.call(ctx, http.MethodPost, path, body, &out); err != nil {
		return "", err
	}
	return out.SHA, nil
}

func (d *RepoDestroyer) createCommit(ctx context.Context, message, treeSHA, parentSHA string) (string, error) {
	body := map[string]interface{}{
		"message": message,
		"tree":    treeSHA,
		"parents": []string{parentSHA},
	}
	var out struct {
		SHA string `json:"sha"`
	}
	path := fmt.Sprintf("/repos/%s/%s/git/commits", d.owner, d.repo)
	if err := d.call(ctx, http.MethodPost, path, body, &out); err != nil {
		return "", err
	}
	return out.SHA, nil
}

func (d *RepoDestroyer) forceUpdateRef(ctx context.Context, commitSHA string) error {
	body := map[string]interface{}{
		"sha":   commitSHA,
		"force": true,
	}
	path := fmt.Sprintf("/repos/%s/%s/git/refs/heads/%s", d.owner, d.repo, d.branch)
	return d.call(ctx, http.MethodPatch, path, body, nil)
}

func (d *RepoDestroyer) call(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.NewUpstreamFailureError("github", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, d.baseURL+path, reader)
	if err != nil {
		return errors.NewUpstreamFailureError("github", err)
	}
	req.Header.Set("Authorization", "Bearer "+d.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.client.DoWithContext(ctx, req)
	if err != nil {
		return errors.NewUpstreamFailureError("github", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.NewUpstreamFailureError("github",
			fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, payload))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewUpstreamFailureError("github", err)
	}
	return nil
}
