package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/models"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type uploadResponse struct {
	Path string `json:"path"`
}

// Upload sends f to the upload endpoint and returns the stored path. When f
// carries no content type it is detected from the file contents.
func (c *Client) Upload(ctx context.Context, f models.File) (string, error) {
	if f.Open == nil {
		return "", fmt.Errorf("file %q has no content", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	data, err := io.ReadAll(io.LimitReader(rc, constants.MaxUploadBytes+1))
	rc.Close()
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	if len(data) > constants.MaxUploadBytes {
		return "", fmt.Errorf("%s exceeds the upload limit of %d bytes", f.Name, constants.MaxUploadBytes)
	}

	contentType := f.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(constants.UploadFormField), quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to write multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, constants.UploadPath, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}

	var result uploadResponse
	if err := decodeResponse(resp, &result); err != nil {
		return "", err
	}
	if result.Path == "" {
		return "", fmt.Errorf("upload of %s returned no path", f.Name)
	}
	return result.Path, nil
}
