package artifactory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/poppy-build/poppup/internal/artifact"
	"github.com/sirupsen/logrus"
)

// Exists issues a HEAD for c. Below 400 the artifact exists; at or above
// 400 it does not. Only transport failures are errors.
func (c *Client) Exists(ctx context.Context, coord artifact.Coordinate) (bool, error) {
	url, err := c.locator.Locate(coord)
	if err != nil {
		return false, err
	}
	c.log.Infof("checking url: %s", url)

	req, err := c.newRequest(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	if !IsFailure(resp.StatusCode) {
		return true, nil
	}
	if resp.StatusCode != http.StatusNotFound {
		c.log.WithField("status", resp.StatusCode).Warn("existence check failed, treating artifact as absent")
	}
	return false, nil
}

// Upload PUTs body as the artifact c. size may be -1 when unknown.
func (c *Client) Upload(ctx context.Context, coord artifact.Coordinate, body io.Reader, size int64) error {
	url, err := c.locator.Locate(coord)
	if err != nil {
		return err
	}
	fields := logrus.Fields{"url": url}
	if size >= 0 {
		fields["size"] = humanize.Bytes(uint64(size))
	}
	c.log.WithFields(fields).Infof("pushing to url: %s", url)

	req, err := c.newRequest(ctx, http.MethodPut, url, body)
	if err != nil {
		return err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", "application/gzip")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if IsFailure(resp.StatusCode) {
		return &UploadRejectedError{Status: resp.StatusCode, Body: readErrorBody(resp.Body)}
	}
	return nil
}

// Download GETs url. The caller closes the returned body. The size is the
// response Content-Length, -1 when the server did not send one.
func (c *Client) Download(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	c.log.Infof("downloading url: %s", url)

	req, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, 0, err
	}
	if IsFailure(resp.StatusCode) {
		resp.Body.Close()
		return nil, 0, &DownloadFailedError{Status: resp.StatusCode, URL: url}
	}
	return resp.Body, resp.ContentLength, nil
}

// Checksums holds the digests the storage API reports for a file.
type Checksums struct {
	MD5    string `json:"md5"`
	SHA1   string `json:"sha1"`
	SHA256 string `json:"sha256"`
}

type storageInfo struct {
	Repo      string    `json:"repo"`
	Path      string    `json:"path"`
	Size      string    `json:"size"`
	Checksums Checksums `json:"checksums"`
}

// Checksums reads file metadata from a storage API URL.
func (c *Client) Checksums(ctx context.Context, storageURL string) (*Checksums, error) {
	req, err := c.newRequest(ctx, http.MethodGet, storageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if IsFailure(resp.StatusCode) {
		return nil, &DownloadFailedError{Status: resp.StatusCode, URL: storageURL}
	}

	var info storageInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("parsing storage info: %w", err)
	}
	return &info.Checksums, nil
}
