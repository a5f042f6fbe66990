// Package upload proxies avatar and post images to Cloudinary.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// CloudinaryUploader uploads images through Cloudinary's unsigned upload API.
type CloudinaryUploader struct {
	cloudName    string
	uploadPreset string
	client       *http.Client
	logger       *slog.Logger
}

// NewCloudinaryUploader creates an uploader for the given cloud and unsigned
// upload preset.
func NewCloudinaryUploader(cloudName, uploadPreset string, logger *slog.Logger) *CloudinaryUploader {
	return &CloudinaryUploader{
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
		client:       &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// Upload sends the file to Cloudinary and returns the hosted secure URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	// The whole file is buffered up front so retries can resend the body.
	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := writer.WriteField("upload_preset", u.uploadPreset); err != nil {
		return "", fmt.Errorf("write preset field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", u.cloudName)
	payload := body.Bytes()

	var secureURL string
	err = retry.Do(
		func() error {
			startTime := time.Now()
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
			if err != nil {
				return fmt.Errorf("create request: %w", err)
			}
			req.Header.Set("Content-Type", writer.FormDataContentType())

			resp, err := u.client.Do(req)
			duration := time.Since(startTime)
			if err != nil {
				u.logger.Warn("Cloudinary upload failed, will retry",
					"filename", filename,
					"duration_ms", duration.Milliseconds(),
					"error", err)
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 300 {
				respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
				u.logger.Warn("Cloudinary returned error status",
					"filename", filename,
					"status", resp.StatusCode,
					"body", string(respBody))
				return fmt.Errorf("cloudinary status %d", resp.StatusCode)
			}

			var parsed cloudinaryResponse
			if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			secureURL = parsed.SecureURL

			u.logger.Info("Cloudinary upload completed",
				"filename", filename,
				"duration_ms", duration.Milliseconds(),
				"public_id", parsed.PublicID)
			return nil
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(time.Minute),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			u.logger.Info("Retrying Cloudinary upload after error", "attempt", n, "error", err)
		}),
	)
	if err != nil {
		return "", err
	}
	return secureURL, nil
}
