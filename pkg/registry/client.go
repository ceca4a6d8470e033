package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultURL is the public npm registry endpoint.
const DefaultURL = "https://registry.npmjs.org"

const requestTimeout = 30 * time.Second

// ResolvedPackage is the outcome of a registry lookup: where the package's
// source lives and the best-guess git reference for the requested version.
// GitTag is a candidate only; tag-naming conventions vary across ecosystems,
// so the fetcher must tolerate the tag not existing in the remote.
type ResolvedPackage struct {
	Name          string
	Version       string
	RepoURL       string
	RepoDirectory string // subdirectory within a monorepo, empty otherwise
	GitTag        string
}

// ResolutionError reports a failed registry lookup or unusable metadata.
// It is fatal for the package it concerns but never aborts a batch.
type ResolutionError struct {
	Name    string
	Version string
	Reason  string
	Err     error
}

func (e *ResolutionError) Error() string {
	spec := e.Name
	if e.Version != "" {
		spec += "@" + e.Version
	}
	if e.Err != nil {
		return fmt.Sprintf("resolving %s: %s: %v", spec, e.Reason, e.Err)
	}
	return fmt.Sprintf("resolving %s: %s", spec, e.Reason)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Client queries an npm-compatible registry over HTTP.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient returns a Client for the given registry base URL.
// An empty baseURL selects the public npm registry.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: requestTimeout},
	}
}

// manifest is the subset of the registry's version manifest we consume.
type manifest struct {
	Version    string          `json:"version"`
	Repository repositoryField `json:"repository"`
}

// repositoryField accepts both encodings the registry serves:
// a plain string ("github:org/repo") or an object with url and directory.
type repositoryField struct {
	URL       string
	Directory string
}

func (r *repositoryField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.URL = s
		return nil
	}

	var obj struct {
		URL       string `json:"url"`
		Directory string `json:"directory"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.URL = obj.URL
	r.Directory = obj.Directory
	return nil
}

// Resolve looks up name at the given version (or the "latest" dist-tag when
// version is empty) and derives the repository URL, monorepo subdirectory,
// and candidate git tag.
func (c *Client) Resolve(ctx context.Context, name, version string) (*ResolvedPackage, error) {
	requested := version
	if requested == "" {
		requested = "latest"
	}

	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(name), url.PathEscape(requested))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ResolutionError{Name: name, Version: version, Reason: "building registry request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &ResolutionError{Name: name, Version: version, Reason: "registry unreachable", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &ResolutionError{Name: name, Version: version, Reason: "not found in registry"}
	case resp.StatusCode != http.StatusOK:
		return nil, &ResolutionError{Name: name, Version: version, Reason: fmt.Sprintf("registry returned %s", resp.Status)}
	}

	var m manifest
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, &ResolutionError{Name: name, Version: version, Reason: "parsing registry manifest", Err: err}
	}

	repoURL := NormalizeRepoURL(m.Repository.URL)
	if repoURL == "" {
		return nil, &ResolutionError{Name: name, Version: m.Version, Reason: "manifest has no usable repository field"}
	}

	return &ResolvedPackage{
		Name:          name,
		Version:       m.Version,
		RepoURL:       repoURL,
		RepoDirectory: m.Repository.Directory,
		GitTag:        candidateTag(name, m.Version, m.Repository.Directory),
	}, nil
}

// candidateTag derives the git tag most likely to mark version in the
// upstream repository. Monorepos commonly namespace tags with the package
// name (e.g. "@babel/core@7.26.0"); standalone repos commonly prefix with
// "v". Both are conventions, not guarantees.
func candidateTag(name, version, repoDirectory string) string {
	if repoDirectory != "" {
		return name + "@" + version
	}
	return "v" + version
}

// NormalizeRepoURL converts the shorthand and scheme variants found in
// registry metadata into an https clone URL. Returns "" when no repository
// can be derived.
//
// Handled forms: "github:org/repo" (and gitlab:/bitbucket:), bare
// "org/repo", "git+https://…", "git://…", and SSH shorthand
// "git@host:org/repo.git".
func NormalizeRepoURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	raw = strings.TrimPrefix(raw, "git+")

	for shorthand, host := range map[string]string{
		"github:":    "github.com",
		"gitlab:":    "gitlab.com",
		"bitbucket:": "bitbucket.org",
	} {
		if strings.HasPrefix(raw, shorthand) {
			return httpsCloneURL(host, strings.TrimPrefix(raw, shorthand))
		}
	}

	// SSH shorthand: git@github.com:owner/repo.git
	if idx := strings.Index(raw, ":"); idx > 0 && !strings.Contains(raw[:idx], "/") && !strings.Contains(raw, "://") {
		host := raw[:idx]
		if at := strings.Index(host, "@"); at >= 0 {
			host = host[at+1:]
		}
		return httpsCloneURL(host, raw[idx+1:])
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return ""
		}
		if at := strings.Index(u.Host, "@"); at >= 0 {
			u.Host = u.Host[at+1:]
		}
		switch u.Scheme {
		case "git", "ssh", "http":
			u.Scheme = "https"
		case "https":
		default:
			return ""
		}
		u.User = nil
		return u.String()
	}

	// Bare "owner/repo" defaults to GitHub, matching npm's own shorthand.
	if parts := strings.Split(raw, "/"); len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		return httpsCloneURL("github.com", raw)
	}

	return ""
}

func httpsCloneURL(host, repoPath string) string {
	repoPath = strings.TrimSuffix(strings.Trim(repoPath, "/"), ".git")
	if repoPath == "" {
		return ""
	}
	return fmt.Sprintf("https://%s/%s.git", host, repoPath)
}
