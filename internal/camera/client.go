// Package camera fetches still frames from an Axis network camera and keeps
// the last one on disk so the editor can start without the camera attached.
package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/icholy/digest"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// SnapshotPath is the VAPIX still-image endpoint.
const SnapshotPath = "/axis-cgi/jpg/image.cgi"

// ErrMalformedSnapshot is returned when the camera answers 200 with a body
// that does not decode as an image.
var ErrMalformedSnapshot = errors.New("malformed camera snapshot")

// Snapshot is one decoded frame plus the bytes it was decoded from.
type Snapshot struct {
	Image  image.Image
	Format string
	Raw    []byte
}

// Client talks to a single camera. The zero HTTP client means
// http.DefaultClient.
type Client struct {
	IP         string
	Username   string
	Password   string
	Resolution string // e.g. "1920x1080"; empty lets the camera choose
	Timeout    time.Duration
	HTTP       *http.Client
}

// NewClient creates a client for the camera at ip.
func NewClient(ip, username, password string) *Client {
	return &Client{IP: ip, Username: username, Password: password}
}

// URL returns the snapshot URL for this client.
func (c *Client) URL() string {
	u := url.URL{Scheme: "http", Host: c.IP, Path: SnapshotPath}
	if c.Resolution != "" {
		u.RawQuery = url.Values{"resolution": {c.Resolution}}.Encode()
	}
	return u.String()
}

// httpClient returns the configured client. With credentials set, its
// transport answers Digest challenges itself.
func (c *Client) httpClient() *http.Client {
	base := c.HTTP
	if base == nil {
		base = http.DefaultClient
	}
	if c.Username == "" {
		return base
	}
	return &http.Client{
		Transport: &digest.Transport{
			Username:  c.Username,
			Password:  c.Password,
			Transport: base.Transport,
		},
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
		Timeout:       base.Timeout,
	}
}

// FetchSnapshot downloads one frame. Credentials are sent only after the
// camera challenges, using Basic or Digest as the challenge asks.
func (c *Client) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	if c.IP == "" {
		return nil, errors.New("camera address is not configured")
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	client := c.httpClient()
	resp, err := c.do(ctx, client, false)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && c.Username != "" {
		challenge := resp.Header.Get("WWW-Authenticate")
		switch {
		case digest.IsDigest(challenge):
			// the transport already answered it, so the credentials were refused
		case isBasic(challenge):
			drain(resp)
			if resp, err = c.do(ctx, client, true); err != nil {
				return nil, err
			}
		default:
			drain(resp)
			return nil, fmt.Errorf("camera %s: unsupported auth challenge %q", c.IP, challenge)
		}
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("camera %s returned %s", c.IP, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot from %s: %w", c.IP, err)
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return &Snapshot{Image: img, Format: format, Raw: raw}, nil
}

func (c *Client) do(ctx context.Context, client *http.Client, basic bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(), nil)
	if err != nil {
		return nil, err
	}
	if basic {
		req.SetBasicAuth(c.Username, c.Password)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot from %s: %w", c.IP, err)
	}
	return resp, nil
}

func isBasic(challenge string) bool {
	scheme, _, _ := strings.Cut(strings.TrimSpace(challenge), " ")
	return strings.EqualFold(scheme, "basic")
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
