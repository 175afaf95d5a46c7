package pricing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shotwright/shotwright/internal/scene"
	"github.com/shotwright/shotwright/internal/session"
)

func testScene() *scene.Scene {
	return &scene.Scene{
		ID: "sc-01",
		Shots: []scene.Shot{
			{Slot: 1, Type: scene.ShotEstablishing, Text: "The warehouse.", Credits: 1},
			{Slot: 2, Type: scene.ShotDialogue, CharacterID: "sarah", Text: "Go.", Credits: 2},
		},
		Characters: []scene.Character{{ID: "sarah", Name: "Sarah"}},
	}
}

func TestBuildRequest(t *testing.T) {
	t.Parallel()

	sc := testScene()
	s := session.New(sc).
		WithDuration(1, scene.DurationExtendedTake).
		WithDialogue(2, session.DialogueConfig{Quality: scene.QualityPremium, Workflow: scene.WorkflowLipSync}).
		WithVideoOptIn(2, true).
		WithVideoType(2, scene.VideoCinema)

	req := BuildRequest("proj-1", s)

	assert.Equal(t, "proj-1", req.ProjectID)
	require.Len(t, req.Shots, 2)
	assert.Equal(t, ShotLine{Slot: 2, Credits: 2, Type: scene.ShotDialogue}, req.Shots[1])
	assert.Equal(t, scene.DurationExtendedTake, req.Durations[1])
	assert.Equal(t, scene.QualityPremium, req.Qualities[2])
	assert.True(t, req.VideoOptIns[2])
	assert.Equal(t, scene.VideoCinema, req.VideoTypes[2])

	// Shots without dialogue config carry no quality entry.
	_, ok := req.Qualities[1]
	assert.False(t, ok)
}

func TestQuoteRequestKey(t *testing.T) {
	t.Parallel()

	sc := testScene()
	s := session.New(sc)

	// Identical configurations key identically across rebuilds.
	key := BuildRequest("proj-1", s).Key()
	for i := 0; i < 10; i++ {
		assert.Equal(t, key, BuildRequest("proj-1", s).Key())
	}

	// Any priced dimension changing changes the key.
	assert.NotEqual(t, key, BuildRequest("proj-2", s).Key())
	assert.NotEqual(t, key, BuildRequest("proj-1", s.WithDuration(1, scene.DurationExtendedTake)).Key())
	assert.NotEqual(t, key, BuildRequest("proj-1", s.WithVideoOptIn(2, true)).Key())

	// Un-priced dimensions do not.
	assert.Equal(t, key, BuildRequest("proj-1", s.WithOffFramePrompt(1, "sirens")).Key())
}

func TestClientQuote(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/pricing/quote", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req QuoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "proj-1", req.ProjectID)

		json.NewEncoder(w).Encode(Quote{
			PerShot: map[int]ShotPrice{
				1: {FirstFramePrice: 5, HDPrice: 10, K4Price: 20},
				2: {FirstFramePrice: 8, HDPrice: 16, K4Price: 32},
			},
			Total: ShotPrice{FirstFramePrice: 13, HDPrice: 26, K4Price: 52},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	req := BuildRequest("proj-1", session.New(testScene()))

	quote, err := client.Quote(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.Key(), quote.Key)
	assert.Equal(t, 13, quote.Total.FirstFramePrice)
	assert.Equal(t, 16, quote.PerShot[2].HDPrice)

	// A repeat of the same configuration is served from cache.
	again, err := client.Quote(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, quote, again)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientQuoteGatewayError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]string{"error": "insufficient credits"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	_, err := client.Quote(context.Background(), BuildRequest("proj-1", session.New(testScene())))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient credits")
}
