package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *GenerationRequest {
	return &GenerationRequest{
		UserID:              "user-1",
		Language:            "en",
		StoryType:           StoryTypeSolo,
		Profile:             ChildProfile{Name: "Mia", AgeYears: 6},
		Moral:               "kindness",
		TargetLengthMinutes: 5,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validRequest().Validate())

	tests := []struct {
		name    string
		mutate  func(*GenerationRequest)
		wantErr error
	}{
		{
			name:    "unsupported language",
			mutate:  func(r *GenerationRequest) { r.Language = "jp" },
			wantErr: ErrInvalidLanguage,
		},
		{
			name:    "unknown story type",
			mutate:  func(r *GenerationRequest) { r.StoryType = "duet" },
			wantErr: ErrInvalidStoryType,
		},
		{
			name:    "length below minimum",
			mutate:  func(r *GenerationRequest) { r.TargetLengthMinutes = 0 },
			wantErr: ErrInvalidTargetLength,
		},
		{
			name:    "length above maximum",
			mutate:  func(r *GenerationRequest) { r.TargetLengthMinutes = 31 },
			wantErr: ErrInvalidTargetLength,
		},
		{
			name:    "missing profile",
			mutate:  func(r *GenerationRequest) { r.Profile = nil },
			wantErr: ErrMissingProfile,
		},
		{
			name:    "profile variant mismatch",
			mutate:  func(r *GenerationRequest) { r.Profile = HeroProfile{Name: "Rex"} },
			wantErr: ErrProfileMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			assert.ErrorIs(t, req.Validate(), tt.wantErr)
		})
	}
}

func TestStoryTypeFor(t *testing.T) {
	assert.Equal(t, StoryTypeSolo, StoryTypeFor(ChildProfile{}))
	assert.Equal(t, StoryTypeCompanion, StoryTypeFor(HeroProfile{}))
	assert.Equal(t, StoryTypeCombined, StoryTypeFor(CombinedProfile{}))
}

func TestFragmentAppliesTo(t *testing.T) {
	solo := StoryTypeSolo
	companion := StoryTypeCompanion
	tests := []struct {
		name     string
		fragment PromptFragment
		want     bool
	}{
		{
			name:     "universal fragment matches any story type",
			fragment: PromptFragment{Language: "en", Active: true},
			want:     true,
		},
		{
			name:     "scoped fragment matches its story type",
			fragment: PromptFragment{Language: "en", StoryType: &solo, Active: true},
			want:     true,
		},
		{
			name:     "scoped fragment skips other story types",
			fragment: PromptFragment{Language: "en", StoryType: &companion, Active: true},
			want:     false,
		},
		{
			name:     "wrong language",
			fragment: PromptFragment{Language: "ru", Active: true},
			want:     false,
		},
		{
			name:     "inactive",
			fragment: PromptFragment{Language: "en", Active: false},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fragment.AppliesTo("en", StoryTypeSolo))
		})
	}
}
