// Package job assembles the generation payload the wizard submits and
// hands it to the backend pipeline.
package job

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shotwright/shotwright/internal/scene"
	"github.com/shotwright/shotwright/internal/session"
)

// ShotSpec is the complete generation configuration for one shot.
type ShotSpec struct {
	Slot        int            `json:"slot"`
	Type        scene.ShotType `json:"type"`
	Text        string         `json:"text"`
	CharacterID string         `json:"character_id,omitempty"`

	CharacterRefs map[string]session.ImageRef `json:"character_refs,omitempty"`
	Outfits       map[string]string           `json:"outfits,omitempty"`

	LocationRef     *session.LocationRef `json:"location_ref,omitempty"`
	LocationSkipped bool                 `json:"location_skipped,omitempty"`
	LocationNote    string               `json:"location_note,omitempty"`

	PronounCast map[string][]string `json:"pronoun_cast,omitempty"` // token -> character ids
	PronounSkip map[string]string   `json:"pronoun_skip,omitempty"` // token -> description

	Props map[string]PropSpec `json:"props,omitempty"`

	Dialogue *session.DialogueConfig `json:"dialogue,omitempty"`

	CameraAngle scene.CameraAngle   `json:"camera_angle"`
	Duration    scene.ShotDuration  `json:"duration"`
	AspectRatio scene.AspectRatio   `json:"aspect_ratio"`
	RefModel    scene.RefImageModel `json:"ref_model"`

	GenerateVideo bool            `json:"generate_video,omitempty"`
	VideoType     scene.VideoType `json:"video_type,omitempty"`

	FirstFramePrompt   string `json:"first_frame_prompt,omitempty"`
	VideoPrompt        string `json:"video_prompt,omitempty"`
	UploadedFirstFrame string `json:"uploaded_first_frame,omitempty"`
	OffFramePrompt     string `json:"off_frame_prompt,omitempty"`
}

// PropSpec is one prop's configuration within a shot.
type PropSpec struct {
	ImageID string `json:"image_id,omitempty"`
	Usage   string `json:"usage,omitempty"`
}

// Request is the generation job submitted to the backend.
type Request struct {
	ProjectID string     `json:"project_id"`
	SceneID   string     `json:"scene_id"`
	Shots     []ShotSpec `json:"shots"`
}

// Build assembles the generation request from the session snapshot. It
// assumes the wizard validated every shot; it performs no checking of its
// own.
func Build(projectID string, s *session.Session) Request {
	sc := s.Scene()
	req := Request{ProjectID: projectID, SceneID: sc.ID}

	for _, shot := range sc.Shots {
		slot := shot.Slot
		spec := ShotSpec{
			Slot:        slot,
			Type:        shot.Type,
			Text:        shot.Text,
			CharacterID: shot.CharacterID,
			CameraAngle: s.CameraAngle(slot),
			Duration:    s.Duration(slot),
			AspectRatio: s.AspectRatio(slot),
			RefModel:    s.RefModel(slot),
		}

		required := append([]string(nil), s.ManualCharacters(slot)...)
		for _, c := range sc.Characters {
			required = append(required, c.ID)
		}
		for _, id := range required {
			if ref, ok := s.CharacterRef(slot, id); ok {
				if spec.CharacterRefs == nil {
					spec.CharacterRefs = map[string]session.ImageRef{}
				}
				spec.CharacterRefs[id] = ref
			}
			if outfit := s.Outfit(slot, id); outfit != "" {
				if spec.Outfits == nil {
					spec.Outfits = map[string]string{}
				}
				spec.Outfits[id] = outfit
			}
		}

		if ref, ok := s.LocationRef(slot); ok {
			r := ref
			spec.LocationRef = &r
		} else if s.LocationOptOut(slot) {
			spec.LocationSkipped = true
			spec.LocationNote = s.LocationNote(slot)
		}

		for token, m := range s.PronounMappings(slot) {
			if m.Mapped() {
				if spec.PronounCast == nil {
					spec.PronounCast = map[string][]string{}
				}
				spec.PronounCast[token] = m.CharacterIDs()
			} else if m.Skipped() {
				if spec.PronounSkip == nil {
					spec.PronounSkip = map[string]string{}
				}
				spec.PronounSkip[token] = s.PronounNotes(slot)[token]
			}
		}

		for _, prop := range sc.Props {
			for _, assigned := range s.PropSlots(prop.ID) {
				if assigned != slot {
					continue
				}
				if spec.Props == nil {
					spec.Props = map[string]PropSpec{}
				}
				spec.Props[prop.ID] = PropSpec{
					ImageID: s.PropImage(slot, prop.ID),
					Usage:   s.PropUsage(slot, prop.ID),
				}
			}
		}

		if cfg, ok := s.Dialogue(slot); ok {
			c := cfg
			spec.Dialogue = &c
		}

		if s.VideoOptIn(slot) {
			spec.GenerateVideo = true
			if t, ok := s.VideoType(slot); ok {
				spec.VideoType = t
			}
		}

		override := s.Override(slot)
		spec.FirstFramePrompt = override.FirstFramePrompt
		spec.VideoPrompt = override.VideoPrompt
		spec.UploadedFirstFrame = override.UploadedFirstFrame
		spec.OffFramePrompt = s.OffFramePrompt(slot)

		req.Shots = append(req.Shots, spec)
	}

	return req
}

// PayloadJSON renders the request as indented JSON, for the review screen's
// copy-to-clipboard affordance.
func PayloadJSON(req Request) (string, error) {
	out, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling job payload: %w", err)
	}
	return string(out), nil
}

// Client submits generation jobs to the backend pipeline.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a job client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Submit sends the generation request and returns the backend job id.
func (c *Client) Submit(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshaling job request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/jobs", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating job request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("submitting job: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading job response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("job gateway returned %s: %s", resp.Status, string(respBody))
	}

	var jr struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(respBody, &jr); err != nil {
		return "", fmt.Errorf("unmarshaling job response: %w", err)
	}
	if jr.JobID == "" {
		return "", fmt.Errorf("backend returned no job id")
	}

	return jr.JobID, nil
}
