package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProfile_Defaults(t *testing.T) {
	p := NewProfile(NewProfileParams{ID: "1", Email: "  Ann@Example.COM "})

	assert.Equal(t, DefaultName, p.Name)
	assert.Equal(t, "ann@example.com", p.Email)
	assert.Empty(t, p.SkillsToTeach)
	assert.NotNil(t, p.SavedSkills)
	assert.False(t, p.IsProfileComplete)
}

func TestNormalizeSkills(t *testing.T) {
	got := NormalizeSkills([]string{" Guitar ", "", "Piano", "Guitar", "guitar", "  "})
	assert.Equal(t, []string{"Guitar", "Piano", "guitar"}, got)
}

func TestApply_ProfileCompletion(t *testing.T) {
	tests := []struct {
		name     string
		update   Update
		complete bool
	}{
		{
			name:     "teach list makes it complete",
			update:   Update{SkillsToTeach: []string{"Go"}, SetTeach: true},
			complete: true,
		},
		{
			name:     "learn list makes it complete",
			update:   Update{SkillsToLearn: []string{"Go"}, SetLearn: true},
			complete: true,
		},
		{
			name:     "empty lists stay incomplete",
			update:   Update{SkillsToTeach: []string{" "}, SetTeach: true},
			complete: false,
		},
		{
			name:     "blank name is incomplete",
			update:   Update{Name: strPtr(" "), SkillsToTeach: []string{"Go"}, SetTeach: true},
			complete: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProfile(NewProfileParams{ID: "1", Name: "Ann"})
			p.Apply(tt.update)
			assert.Equal(t, tt.complete, p.IsProfileComplete)
		})
	}
}

func TestApply_UnsetListsAreKept(t *testing.T) {
	p := NewProfile(NewProfileParams{ID: "1", Name: "Ann"})
	p.Apply(Update{SkillsToTeach: []string{"Go"}, SetTeach: true})
	p.Apply(Update{Bio: strPtr("hi")})

	assert.Equal(t, []string{"Go"}, p.SkillsToTeach)
	assert.Equal(t, "hi", p.Bio)
	assert.True(t, p.IsProfileComplete)
}

func TestToggleSaved(t *testing.T) {
	saved := []string{"A", "B"}

	once := ToggleSaved(saved, "B")
	assert.Equal(t, []string{"A"}, once)

	twice := ToggleSaved(once, "B")
	assert.Equal(t, []string{"A", "B"}, twice)

	assert.Equal(t, []string{"A", "B"}, saved, "input must not be mutated")
}

func TestToggleSaved_PairRestoresSet(t *testing.T) {
	lists := [][]string{{}, {"x"}, {"x", "y", "z"}, {"y", "x"}}
	for _, l := range lists {
		for _, s := range []string{"x", "q"} {
			// Removing then re-adding moves the name to the end, so compare as sets.
			assert.ElementsMatch(t, l, ToggleSaved(ToggleSaved(l, s), s))
		}
	}
}

func strPtr(s string) *string { return &s }
