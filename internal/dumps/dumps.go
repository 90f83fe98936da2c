// Package dumps resolves and downloads wiki content dumps from the
// public cirrussearch dump listing.
package dumps

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// ListingURL is the directory index that carries the current dumps.
const ListingURL = "https://dumps.wikimedia.org/other/cirrussearch/current/"

// contentDumpPattern matches content dump file names for one wiki,
// e.g. nnwiki-20260817-cirrussearch-content.json.gz.
func contentDumpPattern(wiki string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(wiki) + `wiki-(\d{8})-cirrussearch-content\.json\.gz$`)
}

// LatestContentDump fetches the listing page and returns the absolute
// URL of the newest content dump for the given wiki ("nn", "no").
func LatestContentDump(ctx context.Context, client *http.Client, listingURL, wiki string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("dump listing %s: HTTP %d", listingURL, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse dump listing: %w", err)
	}

	pattern := contentDumpPattern(wiki)
	var latest string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				name := path.Base(strings.TrimSuffix(attr.Val, "/"))
				if pattern.MatchString(name) && name > latest {
					// Date is embedded in the name, so string
					// comparison picks the newest.
					latest = name
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if latest == "" {
		return "", fmt.Errorf("no content dump for wiki %q at %s", wiki, listingURL)
	}

	base, err := url.Parse(listingURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(latest)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// Download fetches a dump to destDir, writing through a temporary file
// so an interrupted transfer never leaves a plausible-looking dump
// behind. Returns the final path.
func Download(ctx context.Context, client *http.Client, dumpURL, destDir string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dumpURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: HTTP %d", dumpURL, resp.StatusCode)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}

	name := path.Base(req.URL.Path)
	dest := filepath.Join(destDir, name)

	tmp, err := os.CreateTemp(destDir, name+".part-*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("download %s: %w", dumpURL, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return "", err
	}
	return dest, nil
}
