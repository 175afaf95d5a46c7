// Package media implements the first-frame upload flow against the media
// gateway: presign, upload, register, resolve. Each step can fail
// independently; a failure anywhere aborts the whole operation with no
// partial state, and only a fully resolved display URL is ever handed back
// to the caller.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
)

// Uploader talks to the media gateway.
type Uploader struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewUploader creates an uploader for the given gateway.
func NewUploader(baseURL, token string) *Uploader {
	return &Uploader{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// FirstFrame describes an upload's owning context.
type FirstFrame struct {
	ProjectID string
	SceneID   string
	ShotSlot  int
	FileName  string
	MimeType  string
	Data      []byte
}

type presignRequest struct {
	ObjectKey string `json:"object_key"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	Size      int    `json:"size"`
	ProjectID string `json:"project_id"`
}

type presignResponse struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
}

type registerRequest struct {
	ObjectKey string `json:"object_key"`
	Kind      string `json:"kind"`
	SceneID   string `json:"scene_id"`
	ShotSlot  int    `json:"shot_slot"`
}

type registerResponse struct {
	MediaID string `json:"media_id"`
}

type resolveResponse struct {
	URL string `json:"url"`
}

// UploadFirstFrame runs the full four-step flow and returns the display URL
// for the uploaded image. The object key is unique per upload so retries
// can never collide with a half-registered earlier attempt.
func (u *Uploader) UploadFirstFrame(ctx context.Context, ff FirstFrame) (string, error) {
	objectKey := path.Join("first-frames", ff.ProjectID, uuid.NewString()+path.Ext(ff.FileName))

	presigned, err := u.presign(ctx, presignRequest{
		ObjectKey: objectKey,
		FileName:  ff.FileName,
		MimeType:  ff.MimeType,
		Size:      len(ff.Data),
		ProjectID: ff.ProjectID,
	})
	if err != nil {
		return "", fmt.Errorf("requesting upload target: %w", err)
	}

	if err := u.put(ctx, presigned.UploadURL, ff.MimeType, ff.Data); err != nil {
		return "", fmt.Errorf("uploading first frame: %w", err)
	}

	registered, err := u.register(ctx, registerRequest{
		ObjectKey: presigned.ObjectKey,
		Kind:      "first-frame",
		SceneID:   ff.SceneID,
		ShotSlot:  ff.ShotSlot,
	})
	if err != nil {
		return "", fmt.Errorf("registering upload: %w", err)
	}

	url, err := u.resolve(ctx, registered.MediaID)
	if err != nil {
		return "", fmt.Errorf("resolving display URL: %w", err)
	}

	return url, nil
}

func (u *Uploader) presign(ctx context.Context, req presignRequest) (*presignResponse, error) {
	var resp presignResponse
	if err := u.postJSON(ctx, "/v1/media/presign", req, &resp); err != nil {
		return nil, err
	}
	if resp.UploadURL == "" {
		return nil, fmt.Errorf("gateway returned no upload URL")
	}
	return &resp, nil
}

// put sends the raw bytes to the presigned target.
func (u *Uploader) put(ctx context.Context, url, mimeType string, data []byte) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mimeType)

	resp, err := u.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload target returned %s", resp.Status)
	}
	return nil
}

func (u *Uploader) register(ctx context.Context, req registerRequest) (*registerResponse, error) {
	var resp registerResponse
	if err := u.postJSON(ctx, "/v1/media/register", req, &resp); err != nil {
		return nil, err
	}
	if resp.MediaID == "" {
		return nil, fmt.Errorf("gateway returned no media id")
	}
	return &resp, nil
}

func (u *Uploader) resolve(ctx context.Context, mediaID string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"/v1/media/"+mediaID+"/url", nil)
	if err != nil {
		return "", fmt.Errorf("creating resolve request: %w", err)
	}
	u.authorize(httpReq)

	resp, err := u.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading resolve response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway returned %s", resp.Status)
	}

	var rr resolveResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return "", fmt.Errorf("unmarshaling resolve response: %w", err)
	}
	if rr.URL == "" {
		return "", fmt.Errorf("gateway returned no display URL")
	}
	return rr.URL, nil
}

func (u *Uploader) postJSON(ctx context.Context, endpoint string, req, resp interface{}) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	u.authorize(httpReq)

	httpResp, err := u.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned %s", httpResp.Status)
	}

	if err := json.Unmarshal(respBody, resp); err != nil {
		return fmt.Errorf("unmarshaling response: %w", err)
	}
	return nil
}

func (u *Uploader) authorize(req *http.Request) {
	if u.token != "" {
		req.Header.Set("Authorization", "Bearer "+u.token)
	}
}
