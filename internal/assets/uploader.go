// Package assets uploads binary payloads (base64 data URIs) to the image
// CDN. Uploads are best-effort: callers log failures and continue with the
// previous or empty image rather than failing the parent operation.
package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Uploader stores an image payload and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, data string) (string, error)
}

// HTTPUploader posts unsigned uploads to a Cloudinary-style endpoint.
type HTTPUploader struct {
	uploadURL  string
	preset     string
	httpClient *http.Client
}

func NewHTTPUploader(uploadURL, preset string) *HTTPUploader {
	return &HTTPUploader{
		uploadURL: uploadURL,
		preset:    preset,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload sends the payload and returns the hosted URL.
func (u *HTTPUploader) Upload(ctx context.Context, data string) (string, error) {
	form := url.Values{}
	form.Set("file", data)
	form.Set("upload_preset", u.preset)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload status=%d", resp.StatusCode)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("bad upload response: %v", err)
	}
	if parsed.SecureURL == "" {
		return "", fmt.Errorf("upload response missing secure_url")
	}

	return parsed.SecureURL, nil
}
