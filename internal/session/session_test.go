package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shotwright/shotwright/internal/pronoun"
	"github.com/shotwright/shotwright/internal/scene"
)

func testScene() *scene.Scene {
	return &scene.Scene{
		ID:         "sc-01",
		Title:      "The Warehouse",
		LocationID: "warehouse",
		Shots: []scene.Shot{
			{Slot: 1, Type: scene.ShotEstablishing, Text: "The warehouse at dusk."},
			{Slot: 2, Type: scene.ShotAction, Text: "SARAH slips inside. She checks her watch."},
			{Slot: 3, Type: scene.ShotDialogue, CharacterID: "sarah", Text: "We're too late."},
		},
		Characters: []scene.Character{
			{ID: "sarah", Name: "Sarah", Outfits: []string{"coat", "disguise"}},
			{ID: "james", Name: "James"},
		},
		Props: []scene.Prop{{ID: "briefcase", Name: "Briefcase"}},
	}
}

func TestSnapshotDiscipline(t *testing.T) {
	t.Parallel()

	t.Run("updates return a new snapshot and leave the old one intact", func(t *testing.T) {
		t.Parallel()
		s1 := New(testScene())
		s2 := s1.WithCharacterRef(2, "sarah", ImageRef{PoseID: "front", ImageURL: "http://img/1"})

		require.NotSame(t, s1, s2)

		_, ok := s1.CharacterRef(2, "sarah")
		assert.False(t, ok, "old snapshot must not see the new selection")

		ref, ok := s2.CharacterRef(2, "sarah")
		require.True(t, ok)
		assert.Equal(t, "front", ref.PoseID)
	})

	t.Run("no-op actions return the same snapshot", func(t *testing.T) {
		t.Parallel()
		s1 := New(testScene()).AddManualCharacter(2, "james")
		assert.Same(t, s1, s1.AddManualCharacter(2, "james"))
		assert.Same(t, s1, s1.RemoveManualCharacter(2, "sarah"))

		s2 := s1.AssignProp("briefcase", 1)
		assert.Same(t, s2, s2.AssignProp("briefcase", 1))
		assert.Same(t, s2, s2.UnassignProp("briefcase", 2))
	})

	t.Run("unknown slot panics", func(t *testing.T) {
		t.Parallel()
		s := New(testScene())
		assert.Panics(t, func() { s.WithLocationOptOut(99, true) })
	})
}

func TestCharacterAndPronounTables(t *testing.T) {
	t.Parallel()

	s := New(testScene()).
		WithCharacterRef(2, "sarah", ImageRef{PoseID: "front"}).
		WithOutfit(2, "sarah", "disguise").
		WithPronounMapping(2, "SHE", pronoun.MapTo("sarah")).
		WithPronounNote(2, "her", "the courier")

	ref, ok := s.CharacterRef(2, "sarah")
	require.True(t, ok)
	assert.Equal(t, "front", ref.PoseID)
	assert.Equal(t, "disguise", s.Outfit(2, "sarah"))

	// Tokens are stored lower cased.
	m := s.PronounMappings(2)["she"]
	assert.True(t, m.Mapped())
	assert.Equal(t, "the courier", s.PronounNotes(2)["her"])

	cleared := s.ClearCharacterRef(2, "sarah").ClearPronounMapping(2, "she")
	_, ok = cleared.CharacterRef(2, "sarah")
	assert.False(t, ok)
	assert.Empty(t, cleared.PronounMappings(2))

	// The original snapshot is untouched.
	_, ok = s.CharacterRef(2, "sarah")
	assert.True(t, ok)
}

func TestPropAssignment(t *testing.T) {
	t.Parallel()

	s := New(testScene()).
		AssignProp("briefcase", 1).
		AssignProp("briefcase", 2).
		WithPropImage(2, "briefcase", "img-7").
		WithPropUsage(2, "briefcase", "handed over at the door")

	assert.Equal(t, []int{1, 2}, s.PropSlots("briefcase"))
	assert.Equal(t, "img-7", s.PropImage(2, "briefcase"))

	// Unassigning a shot drops that shot's image and usage with it.
	s2 := s.UnassignProp("briefcase", 2)
	assert.Equal(t, []int{1}, s2.PropSlots("briefcase"))
	assert.Empty(t, s2.PropImage(2, "briefcase"))
	assert.Empty(t, s2.PropUsage(2, "briefcase"))
}

func TestVideoOptInClearsType(t *testing.T) {
	t.Parallel()

	s := New(testScene()).
		WithVideoOptIn(3, true).
		WithVideoType(3, scene.VideoCinema)

	vt, ok := s.VideoType(3)
	require.True(t, ok)
	assert.Equal(t, scene.VideoCinema, vt)

	s2 := s.WithVideoOptIn(3, false)
	assert.False(t, s2.VideoOptIn(3))
	_, ok = s2.VideoType(3)
	assert.False(t, ok, "opting out must drop the video type")

	// Re-opting in does not resurrect the old selection.
	s3 := s2.WithVideoOptIn(3, true)
	_, ok = s3.VideoType(3)
	assert.False(t, ok)
}

func TestOverridePermission(t *testing.T) {
	t.Parallel()

	t.Run("non-dialogue shots always allow overrides", func(t *testing.T) {
		t.Parallel()
		s := New(testScene())
		assert.True(t, s.OverrideAllowed(1))
		assert.True(t, s.OverrideAllowed(2))
	})

	t.Run("dialogue shots allow overrides only for scene voiceover", func(t *testing.T) {
		t.Parallel()
		s := New(testScene())
		assert.False(t, s.OverrideAllowed(3))

		s = s.WithDialogue(3, DialogueConfig{Workflow: scene.WorkflowNarrateShot})
		assert.True(t, s.OverrideAllowed(3))

		s = s.WithDialogue(3, DialogueConfig{Workflow: scene.WorkflowLipSync})
		assert.False(t, s.OverrideAllowed(3))
	})

	t.Run("setting an override on a forbidden shot is a no-op", func(t *testing.T) {
		t.Parallel()
		s := New(testScene()).WithDialogue(3, DialogueConfig{Workflow: scene.WorkflowLipSync})
		assert.Same(t, s, s.WithFirstFrameOverride(3, true, "a prompt"))
		assert.Same(t, s, s.WithVideoPromptOverride(3, true, "a prompt"))
	})
}

func TestWorkflowChangeClearsOverrides(t *testing.T) {
	t.Parallel()

	s := New(testScene()).
		WithDialogue(3, DialogueConfig{Workflow: scene.WorkflowNarrateShot}).
		WithFirstFrameOverride(3, true, "moody close-up").
		WithVideoPromptOverride(3, true, "slow push in").
		WithUploadedFirstFrame(3, "http://img/frame.png")

	require.True(t, s.FirstFrameOverrideEnabled(3))

	// Moving to a workflow without override support drops the prompt
	// overrides but keeps the uploaded frame.
	s2 := s.WithDialogue(3, DialogueConfig{Workflow: scene.WorkflowLipSync})
	assert.False(t, s2.FirstFrameOverrideEnabled(3))
	assert.False(t, s2.VideoPromptOverrideEnabled(3))
	assert.Equal(t, "http://img/frame.png", s2.Override(3).UploadedFirstFrame)

	// Clearing the dialogue config behaves the same way.
	s3 := s.ClearDialogue(3)
	assert.False(t, s3.FirstFrameOverrideEnabled(3))
	assert.Equal(t, "http://img/frame.png", s3.Override(3).UploadedFirstFrame)
}

func TestOverrideEnabledIsDerived(t *testing.T) {
	t.Parallel()

	s := New(testScene())

	// Text alone enables the override, flag alone enables it too.
	withText := s.WithFirstFrameOverride(2, false, "rain on the window")
	assert.True(t, withText.FirstFrameOverrideEnabled(2))

	withFlag := s.WithVideoPromptOverride(2, true, "")
	assert.True(t, withFlag.VideoPromptOverrideEnabled(2))

	// Whitespace text does not.
	blank := s.WithFirstFrameOverride(2, false, "   ")
	assert.False(t, blank.FirstFrameOverrideEnabled(2))
}

func TestSettingDefaults(t *testing.T) {
	t.Parallel()

	s := New(testScene())
	assert.Equal(t, scene.CameraAuto, s.CameraAngle(1))
	assert.Equal(t, scene.DurationQuickCut, s.Duration(1))
	assert.Equal(t, scene.Ratio16x9, s.AspectRatio(1))
	assert.Equal(t, scene.RefModelDefault, s.RefModel(1))

	s = s.WithCameraAngle(1, scene.CameraWide)
	assert.Equal(t, scene.CameraWide, s.CameraAngle(1))

	// Selecting auto clears the stored entry back to the default.
	s = s.WithCameraAngle(1, scene.CameraAuto)
	assert.Equal(t, scene.CameraAuto, s.CameraAngle(1))
}
