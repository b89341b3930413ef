package camera

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/icholy/digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jpegFrame(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func clientFor(srv *httptest.Server) *Client {
	return NewClient(strings.TrimPrefix(srv.URL, "http://"), "root", "secret")
}

func TestFetchSnapshotNoAuth(t *testing.T) {
	frame := jpegFrame(t, 16, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, SnapshotPath, r.URL.Path)
		assert.Equal(t, "640x480", r.URL.Query().Get("resolution"))
		w.Write(frame)
	}))
	defer srv.Close()

	c := clientFor(srv)
	c.Resolution = "640x480"
	snap, err := c.FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jpeg", snap.Format)
	assert.Equal(t, image.Rect(0, 0, 16, 8), snap.Image.Bounds())
	assert.Equal(t, frame, snap.Raw)
}

func TestFetchSnapshotBasicAuth(t *testing.T) {
	frame := jpegFrame(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "root" || pass != "secret" {
			w.Header().Set("WWW-Authenticate", `Basic realm="AXIS"`)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write(frame)
	}))
	defer srv.Close()

	_, err := clientFor(srv).FetchSnapshot(context.Background())
	require.NoError(t, err)
}

// digestServer serves frame to requests whose digest response matches
// chal and the given password.
func digestServer(t *testing.T, chal *digest.Challenge, password string, frame []byte) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cred, err := digest.ParseCredentials(r.Header.Get("Authorization"))
		if err != nil {
			w.Header().Set("WWW-Authenticate", chal.String())
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		want, err := digest.Digest(chal, digest.Options{
			Method:   r.Method,
			URI:      r.URL.RequestURI(),
			Count:    cred.Nc,
			Cnonce:   cred.Cnonce,
			Username: "root",
			Password: password,
		})
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if cred.Response != want.Response || cred.Opaque != chal.Opaque || cred.URI != r.URL.RequestURI() {
			w.Header().Set("WWW-Authenticate", chal.String())
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write(frame)
	}))
}

func TestFetchSnapshotDigestAuth(t *testing.T) {
	frame := jpegFrame(t, 4, 4)
	tests := []struct {
		name string
		chal *digest.Challenge
	}{
		{"qop auth", &digest.Challenge{Realm: "AXIS_ACCC8E000000", Nonce: "abc123", QOP: []string{"auth"}, Algorithm: "MD5", Opaque: "xyz"}},
		{"no qop", &digest.Challenge{Realm: "AXIS_ACCC8E000000", Nonce: "def456"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := digestServer(t, tt.chal, "secret", frame)
			defer srv.Close()

			c := clientFor(srv)
			c.Resolution = "800x600"
			snap, err := c.FetchSnapshot(context.Background())
			require.NoError(t, err)
			assert.Equal(t, frame, snap.Raw)
		})
	}
}

func TestFetchSnapshotDigestRejected(t *testing.T) {
	chal := &digest.Challenge{Realm: "AXIS", Nonce: "n1", QOP: []string{"auth"}}
	srv := digestServer(t, chal, "other", jpegFrame(t, 4, 4))
	defer srv.Close()

	_, err := clientFor(srv).FetchSnapshot(context.Background())
	assert.ErrorContains(t, err, "401")
}

func TestFetchSnapshotErrors(t *testing.T) {
	t.Run("wrong credentials", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("WWW-Authenticate", `Basic realm="AXIS"`)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := clientFor(srv).FetchSnapshot(context.Background())
		assert.ErrorContains(t, err, "401")
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := clientFor(srv).FetchSnapshot(context.Background())
		assert.ErrorContains(t, err, "503")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not an image</html>"))
		}))
		defer srv.Close()

		_, err := clientFor(srv).FetchSnapshot(context.Background())
		assert.ErrorIs(t, err, ErrMalformedSnapshot)
	})

	t.Run("unsupported challenge", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("WWW-Authenticate", `Negotiate`)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := clientFor(srv).FetchSnapshot(context.Background())
		assert.ErrorContains(t, err, "unsupported auth challenge")
	})
}

type fakeFetcher struct {
	calls int
	img   image.Image
	err   error
}

func (f *fakeFetcher) FetchSnapshot(context.Context) (*Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &Snapshot{Image: f.img, Format: "png"}, nil
}

func TestCacheMissFetchesAndCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames", "today", "snapshot_raw.png")
	f := &fakeFetcher{img: image.NewRGBA(image.Rect(0, 0, 3, 2))}

	got, fetched, err := NewCache(path, f).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, fetched)
	assert.Equal(t, path, got)
	assert.Equal(t, 1, f.calls)
	assert.NoError(t, checkImage(path))
}

func TestCacheHitSkipsCamera(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot_raw.png")
	require.NoError(t, writePNG(path, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	f := &fakeFetcher{err: errors.New("camera must not be contacted")}

	_, fetched, err := NewCache(path, f).Load(context.Background())
	require.NoError(t, err)
	assert.False(t, fetched)
	assert.Equal(t, 0, f.calls)
}

func TestCacheCorruptRefetches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot_raw.png")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))
	f := &fakeFetcher{img: image.NewRGBA(image.Rect(0, 0, 5, 5))}

	_, fetched, err := NewCache(path, f).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, fetched)
	assert.NoError(t, checkImage(path))
}

func TestCacheFetchFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot_raw.png")
	boom := errors.New("no route to host")

	_, _, err := NewCache(path, &fakeFetcher{err: boom}).Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NoFileExists(t, path)
}
