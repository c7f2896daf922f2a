package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackReference_Validate(t *testing.T) {
	tests := []struct {
		name    string
		track   TrackReference
		wantErr error
	}{
		{
			name:  "valid track",
			track: TrackReference{ID: "3AX2zMrXcR2up2rg4bpXSM", Name: "HARDX"},
		},
		{
			name:    "missing id",
			track:   TrackReference{Name: "HARDX"},
			wantErr: ErrInvalidTrack,
		},
		{
			name:    "missing name",
			track:   TrackReference{ID: "3AX2zMrXcR2up2rg4bpXSM"},
			wantErr: ErrInvalidTrack,
		},
		{
			name:    "empty track",
			track:   TrackReference{},
			wantErr: ErrInvalidTrack,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.track.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTrackReference_ArtistNames(t *testing.T) {
	track := TrackReference{
		ID:   "1zX178V8sWozr96MrfmRun",
		Name: "Western Union",
		Artists: []TrackArtist{
			{Name: "Thaiboy Digital"},
			{Name: "Bladee"},
			{Name: "Ecco2k"},
		},
	}

	assert.Equal(t, []string{"Thaiboy Digital", "Bladee", "Ecco2k"}, track.ArtistNames())
}

func TestTrackReference_ArtistNames_Empty(t *testing.T) {
	track := TrackReference{ID: "abc", Name: "instrumental"}

	assert.Empty(t, track.ArtistNames())
}
