package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"
)

var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

func DownloadFile(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// IsURL reports whether location is an http(s) URL rather than a file path.
func IsURL(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// LocalCopy returns a readable file path for location. URLs are downloaded
// into dir; the returned cleanup removes the download.
func LocalCopy(ctx context.Context, location, dir string) (string, func(), error) {
	if !IsURL(location) {
		return location, func() {}, nil
	}

	body, err := DownloadFile(ctx, location)
	if err != nil {
		return "", nil, err
	}
	defer body.Close()

	u, _ := url.Parse(location)
	filename := path.Base(u.Path)
	if filename == "" || filename == "/" || filename == "." {
		filename = "downloaded.csv"
	}

	f, err := os.CreateTemp(dir, "*-"+filename)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("failed to write CSV data: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("failed to write CSV data: %w", err)
	}

	return f.Name(), func() { os.Remove(f.Name()) }, nil
}
