// File: internal/store/store.go
// Brief: Microsoft Store package retrieval via the rg-adguard front end.

// Package store fetches Minecraft Bedrock appx packages. The Microsoft
// Store has no public download API, so the client asks the rg-adguard
// mirror front end for signed download links and streams the x64 appx
// it lists.
package store

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/SkyEye-FAST/mcbe-chinese-patch/internal/ui"
)

// DefaultEndpoint is the rg-adguard link resolver.
const DefaultEndpoint = "https://store.rg-adguard.net/api/GetFiles"

// appxPattern selects the x64 appx entry among the listed files.
var appxPattern = regexp.MustCompile(`x64.*\.appx\b`)

// versionPattern pulls the package version out of an appx file name,
// e.g. Microsoft.MinecraftUWP_1.21.2301.0_x64__8wekyb3d8bbwe.appx.
var versionPattern = regexp.MustCompile(`_(\d+\.\d+\.\d+\.\d+)_`)

// Client downloads store packages.
type Client struct {
	// Endpoint defaults to DefaultEndpoint when empty.
	Endpoint string
	// HTTPClient is used for the link lookup. Downloads always run on
	// a client without a total timeout; large appx files stream for
	// minutes and are bounded by the caller's context instead.
	HTTPClient *http.Client
	// Progress receives download progress output. Nil disables it.
	Progress io.Writer
	// Interactive selects in-place progress rendering.
	Interactive bool
}

// Listing identifies a resolved package before any bytes move.
type Listing struct {
	// Name is the appx file name as listed by the resolver.
	Name string
	// URL is the download link for that file.
	URL string
	// Version is the package version parsed from the name, empty when
	// the name carries none.
	Version string
}

// Download describes a fetched appx file.
type Download struct {
	// Name is the file name as listed by the resolver.
	Name string
	// Path is the location on disk.
	Path string
	// Version is the package version parsed from the name, empty when
	// the name carries none.
	Version string
	// Cached is true when the file already existed and no bytes were
	// transferred.
	Cached bool
}

func (c *Client) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return DefaultEndpoint
}

func (c *Client) lookupClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// Resolve asks the link resolver which x64 appx a package family maps
// to, without downloading anything.
func (c *Client) Resolve(ctx context.Context, family string) (*Listing, error) {
	name, link, err := c.resolveLink(ctx, family)
	if err != nil {
		return nil, err
	}
	listing := &Listing{Name: name, URL: link}
	if m := versionPattern.FindStringSubmatch(name); m != nil {
		listing.Version = m[1]
	}
	return listing, nil
}

// Retrieve streams a resolved listing into destDir. An existing file
// with the listed name is reused without downloading.
func (c *Client) Retrieve(ctx context.Context, listing *Listing, destDir string) (*Download, error) {
	dl := &Download{
		Name:    listing.Name,
		Version: listing.Version,
		Path:    filepath.Join(destDir, listing.Name),
	}
	if _, err := os.Stat(dl.Path); err == nil {
		dl.Cached = true
		return dl, nil
	}
	if err := c.download(ctx, listing.URL, dl.Path); err != nil {
		return nil, errors.Wrapf(err, "download %s", listing.Name)
	}
	return dl, nil
}

// Fetch resolves the download link for a package family and streams the
// x64 appx into destDir in one step.
func (c *Client) Fetch(ctx context.Context, family, destDir string) (*Download, error) {
	listing, err := c.Resolve(ctx, family)
	if err != nil {
		return nil, err
	}
	return c.Retrieve(ctx, listing, destDir)
}

// resolveLink posts the package family to the resolver and returns the
// first x64 appx entry from the response listing.
func (c *Client) resolveLink(ctx context.Context, family string) (name, link string, err error) {
	form := url.Values{
		"type": {"PackageFamilyName"},
		"url":  {family},
		"ring": {"RP"},
		"lang": {"en-US"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", errors.Wrap(err, "build link request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.lookupClient().Do(req)
	if err != nil {
		return "", "", errors.Wrap(err, "request download links")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", errors.Errorf("link resolver returned %s", resp.Status)
	}

	name, link, ok, err := findAppxLink(resp.Body)
	if err != nil {
		return "", "", errors.Wrap(err, "parse link listing")
	}
	if !ok {
		return "", "", errors.Errorf("no x64 appx file listed for %s", family)
	}
	return name, link, nil
}

// findAppxLink walks the listing HTML and returns the first anchor
// whose text names an x64 appx file.
func findAppxLink(body io.Reader) (name, link string, found bool, err error) {
	doc, err := html.Parse(body)
	if err != nil {
		return "", "", false, err
	}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			var href string
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					href = attr.Val
					break
				}
			}
			text := anchorText(n)
			if href != "" && appxPattern.MatchString(text) {
				name, link, found = text, href, true
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return name, link, found, nil
}

// anchorText concatenates the trimmed text fragments under a node.
func anchorText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(strings.TrimSpace(n.Data))
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

// download streams the link into path through a temp file so an
// interrupted transfer never leaves a partial appx behind.
func (c *Client) download(ctx context.Context, link, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return errors.Wrap(err, "build download request")
	}
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return errors.Wrap(err, "start download")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("download returned %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	var dst io.Writer = f
	var finish func()
	if c.Progress != nil {
		progress := ui.NewProgress(c.Progress, resp.ContentLength, c.Interactive)
		dst = io.MultiWriter(f, progress)
		finish = progress.Finish
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errors.Wrap(err, "stream body")
	}
	if finish != nil {
		finish()
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
