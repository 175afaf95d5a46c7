package job

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shotwright/shotwright/internal/pronoun"
	"github.com/shotwright/shotwright/internal/scene"
	"github.com/shotwright/shotwright/internal/session"
)

func testScene() *scene.Scene {
	return &scene.Scene{
		ID:         "sc-01",
		Title:      "The Warehouse",
		LocationID: "warehouse",
		Shots: []scene.Shot{
			{Slot: 1, Type: scene.ShotAction, Text: "SARAH slips inside. She checks her watch."},
			{Slot: 2, Type: scene.ShotDialogue, CharacterID: "sarah", Text: "We're too late."},
		},
		Characters: []scene.Character{
			{ID: "sarah", Name: "Sarah"},
			{ID: "james", Name: "James"},
		},
		Props: []scene.Prop{{ID: "briefcase", Name: "Briefcase"}},
	}
}

func configuredSession(sc *scene.Scene) *session.Session {
	return session.New(sc).
		WithCharacterRef(1, "sarah", session.ImageRef{PoseID: "front", ImageURL: "http://img/1"}).
		WithOutfit(1, "sarah", "coat").
		WithPronounMapping(1, "she", pronoun.MapTo("sarah")).
		WithPronounMapping(1, "her", pronoun.Skip()).
		WithPronounNote(1, "her", "the courier").
		WithLocationRef(1, session.LocationRef{AngleID: "wide-east"}).
		WithLocationOptOut(2, true).
		WithLocationNote(2, "dim corridor").
		AssignProp("briefcase", 1).
		WithPropImage(1, "briefcase", "img-7").
		WithPropUsage(1, "briefcase", "clutched tight").
		WithDialogue(2, session.DialogueConfig{Quality: scene.QualityPremium, Workflow: scene.WorkflowLipSync}).
		WithCameraAngle(1, scene.CameraWide).
		WithVideoOptIn(2, true).
		WithVideoType(2, scene.VideoCinema).
		WithOffFramePrompt(1, "distant sirens")
}

func TestBuild(t *testing.T) {
	t.Parallel()

	sc := testScene()
	req := Build("proj-1", configuredSession(sc))

	assert.Equal(t, "proj-1", req.ProjectID)
	assert.Equal(t, "sc-01", req.SceneID)
	require.Len(t, req.Shots, 2)

	first := req.Shots[0]
	assert.Equal(t, 1, first.Slot)
	assert.Equal(t, "front", first.CharacterRefs["sarah"].PoseID)
	assert.Equal(t, "coat", first.Outfits["sarah"])
	require.NotNil(t, first.LocationRef)
	assert.Equal(t, "wide-east", first.LocationRef.AngleID)
	assert.Equal(t, []string{"sarah"}, first.PronounCast["she"])
	assert.Equal(t, "the courier", first.PronounSkip["her"])
	assert.Equal(t, PropSpec{ImageID: "img-7", Usage: "clutched tight"}, first.Props["briefcase"])
	assert.Equal(t, scene.CameraWide, first.CameraAngle)
	assert.Equal(t, scene.DurationQuickCut, first.Duration)
	assert.Equal(t, "distant sirens", first.OffFramePrompt)

	second := req.Shots[1]
	assert.Nil(t, second.LocationRef)
	assert.True(t, second.LocationSkipped)
	assert.Equal(t, "dim corridor", second.LocationNote)
	require.NotNil(t, second.Dialogue)
	assert.Equal(t, scene.WorkflowLipSync, second.Dialogue.Workflow)
	assert.True(t, second.GenerateVideo)
	assert.Equal(t, scene.VideoCinema, second.VideoType)
}

func TestBuildOmitsUnsetState(t *testing.T) {
	t.Parallel()

	sc := testScene()
	req := Build("proj-1", session.New(sc))

	first := req.Shots[0]
	assert.Nil(t, first.CharacterRefs)
	assert.Nil(t, first.LocationRef)
	assert.False(t, first.LocationSkipped)
	assert.Nil(t, first.Dialogue)
	assert.False(t, first.GenerateVideo)
	assert.Equal(t, scene.CameraAuto, first.CameraAngle)
	assert.Equal(t, scene.Ratio16x9, first.AspectRatio)
}

func TestPayloadJSON(t *testing.T) {
	t.Parallel()

	payload, err := PayloadJSON(Build("proj-1", configuredSession(testScene())))
	require.NoError(t, err)

	var decoded Request
	require.NoError(t, json.Unmarshal([]byte(payload), &decoded))
	assert.Equal(t, "proj-1", decoded.ProjectID)
	require.Len(t, decoded.Shots, 2)
	assert.Contains(t, payload, "\n", "payload should be indented for human reading")
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/jobs", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sc-01", req.SceneID)

		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"job_id": "job-99"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	jobID, err := client.Submit(context.Background(), Build("proj-1", configuredSession(testScene())))
	require.NoError(t, err)
	assert.Equal(t, "job-99", jobID)
}

func TestSubmitErrors(t *testing.T) {
	t.Parallel()

	t.Run("gateway failure", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "pipeline unavailable", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "").Submit(context.Background(), Request{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pipeline unavailable")
	})

	t.Run("missing job id", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "").Submit(context.Background(), Request{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no job id")
	})
}
