package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// MaxImageSize is the largest upload the image host accepts from the back-office.
const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ImageHost uploads product images to a Cloudinary-compatible host using an unsigned preset.
type ImageHost struct {
	uploadURL string
	preset    string
	http      *http.Client
	log       logrus.FieldLogger
}

// CloudinaryUploadURL returns the unsigned upload endpoint for a cloud.
func CloudinaryUploadURL(cloudName string) string {
	return fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", cloudName)
}

func NewImageHost(uploadURL, preset string, httpClient *http.Client, logger logrus.FieldLogger) *ImageHost {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &ImageHost{
		uploadURL: uploadURL,
		preset:    preset,
		http:      httpClient,
		log:       logger.WithField("backend", "images"),
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload checks size and content type locally, then posts the file and returns its secure URL.
func (h *ImageHost) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	const op = "images.upload"

	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("%s: failed to read image: %w", op, err)
	}
	if len(data) == 0 {
		return "", validationError(op, "Selecciona una imagen")
	}
	if len(data) > MaxImageSize {
		return "", validationError(op, "La imagen no debe superar 5MB")
	}
	if ct := http.DetectContentType(data); !allowedImageTypes[ct] {
		return "", validationError(op, "Formato no permitido. Usa JPG, PNG o WEBP")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("%s: failed to build form: %w", op, err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("%s: failed to build form: %w", op, err)
	}
	if err := mw.WriteField("upload_preset", h.preset); err != nil {
		return "", fmt.Errorf("%s: failed to build form: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%s: failed to build form: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := h.http.Do(req)
	if err != nil {
		h.log.WithError(err).Error("image upload failed")
		return "", &Error{Kind: KindUnreachable, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := errorMessage(io.LimitReader(resp.Body, maxErrorBody))
		h.log.Warnf("image host returned status %d: %s", resp.StatusCode, msg)
		return "", &Error{Kind: kindForStatus(resp.StatusCode), Op: op, Status: resp.StatusCode, Message: msg}
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{Kind: KindServer, Op: op, Message: "invalid response", Err: err}
	}
	if out.SecureURL == "" {
		return "", &Error{Kind: KindServer, Op: op, Message: "image host returned no URL"}
	}
	h.log.Infof("uploaded %s", out.SecureURL)
	return out.SecureURL, nil
}
