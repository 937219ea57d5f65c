package pep503

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/datawire/dlib/dlog"
	"golang.org/x/net/html"

	"github.com/reqsync/reqsync/pkg/python/pep440"
)

// PyPIBaseURL is the root of the default package index.
const PyPIBaseURL = "https://pypi.org/simple/"

// Client talks to a PEP 503 "simple" package index.  The zero value talks to
// PyPI with http.DefaultClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

func (c *Client) fillDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = PyPIBaseURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.UserAgent == "" {
		c.UserAgent = "github.com/reqsync/reqsync/pkg/python/pep503"
	}
}

// HTTPError is a non-200 response from the index.
type HTTPError struct {
	Status     string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %s", e.Status)
}

func (c Client) get(ctx context.Context, requestURL string) (_ []byte, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("GET %q => %w", requestURL, err)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	dlog.Debugf(ctx, "GET %s", requestURL)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		_ = resp.Body.Close()
		return nil, err
	}
	if err := resp.Body.Close(); err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Status: resp.Status, StatusCode: resp.StatusCode}
	}
	return content, nil
}

func visitHTML(node *html.Node, fn func(*html.Node) error) error {
	if err := fn(node); err != nil {
		return err
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if err := visitHTML(child, fn); err != nil {
			return err
		}
	}
	return nil
}

// ListFilenames returns the anchor texts of the project's index page; one
// per published file (sdists, wheels).
func (c Client) ListFilenames(ctx context.Context, project string) ([]string, error) {
	if err := CheckName(project); err != nil {
		return nil, err
	}
	c.fillDefaults()

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	u.Path = path.Join(u.Path, NormalizeName(project)) + "/"

	content, err := c.get(ctx, u.String())
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var filenames []string
	_ = visitHTML(doc, func(node *html.Node) error {
		if node.Type != html.ElementNode || node.Data != "a" {
			return nil
		}
		var text strings.Builder
		_ = visitHTML(node, func(child *html.Node) error {
			if child.Type == html.TextNode {
				text.WriteString(child.Data)
			}
			return nil
		})
		if text.Len() > 0 {
			filenames = append(filenames, text.String())
		}
		return nil
	})
	return filenames, nil
}

// ListVersions returns the sorted, de-duplicated set of versions that the
// index has files for.  Filenames that don't parse (signatures, pre-PEP-440
// junk) are skipped with a debug log, matching how installers treat them.
func (c Client) ListVersions(ctx context.Context, project string) ([]pep440.Version, error) {
	filenames, err := c.ListFilenames(ctx, project)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]pep440.Version)
	for _, filename := range filenames {
		ver := versionFromFilename(project, filename)
		if ver == nil {
			dlog.Debugf(ctx, "%s: skipping unparseable filename %q", project, filename)
			continue
		}
		seen[ver.String()] = *ver
	}

	vers := make([]pep440.Version, 0, len(seen))
	for _, ver := range seen {
		vers = append(vers, ver)
	}
	sort.Slice(vers, func(i, j int) bool {
		return vers[i].Cmp(vers[j]) < 0
	})
	return vers, nil
}

var distExtensions = []string{
	".whl",
	".tar.gz",
	".tar.bz2",
	".zip",
	".egg",
}

// versionFromFilename extracts the version part of a distribution filename
// ("jedi-0.17.2.tar.gz", "jedi-0.17.2-py2.py3-none-any.whl"); nil if the
// filename doesn't look like a distribution of the project.
func versionFromFilename(project, filename string) *pep440.Version {
	base := filename
	ext := ""
	for _, e := range distExtensions {
		if strings.HasSuffix(base, e) {
			base = strings.TrimSuffix(base, e)
			ext = e
			break
		}
	}
	if ext == "" {
		return nil
	}

	if ext == ".whl" || ext == ".egg" {
		// NAME-VERSION(-BUILD)?-PYTAG-ABITAG-PLATTAG; NAME has all runs
		// of [-_.] collapsed to "_", so the version is field 1
		fields := strings.Split(base, "-")
		if len(fields) < 2 || NormalizeName(fields[0]) != NormalizeName(project) {
			return nil
		}
		ver, err := pep440.ParseVersion(fields[1])
		if err != nil {
			return nil
		}
		return ver
	}

	// sdist: NAME-VERSION, but NAME itself may contain hyphens; find the
	// split point whose left side is the project
	want := NormalizeName(project)
	for i := len(base) - 1; i > 0; i-- {
		if base[i] != '-' {
			continue
		}
		if NormalizeName(base[:i]) != want {
			continue
		}
		ver, err := pep440.ParseVersion(base[i+1:])
		if err != nil {
			return nil
		}
		return ver
	}
	return nil
}
