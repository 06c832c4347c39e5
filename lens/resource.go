package lens

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// A Resource wraps a streamable local file or remote prescription source.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// The path or URL this resource was opened from.
func (r *Resource) Path() string {
	return r.url.String()
}

// A short name for the resource: the base of its path without the extension.
func (r *Resource) Name() string {
	base := filepath.Base(r.url.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// True if the resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Open a resource data stream. Plain paths open local files while http/https
// URLs are fetched with net/http. The caller must close the returned
// resource.
func NewResource(pathToResource string) (*Resource, error) {
	url, err := url.Parse(strings.Replace(pathToResource, `\`, `/`, -1))
	if err != nil {
		return nil, err
	}

	var reader io.ReadCloser
	switch url.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(url.Path))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := http.Get(url.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %s", url.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", url.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", url.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        url,
	}, nil
}
