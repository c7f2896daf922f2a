package models

import "errors"

var ErrInvalidTrack = errors.New("track must have an id and a name")

// TrackReference is the immutable description of a recommendable song. It is
// captured verbatim from the Spotify payload at submission time and never
// re-fetched, so consumed recommendations keep the track exactly as it was
// recommended.
type TrackReference struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Artists      []TrackArtist  `json:"artists"`
	Album        TrackAlbum     `json:"album"`
	ExternalURLs TrackExternals `json:"external_urls"`
}

type TrackArtist struct {
	Name string `json:"name"`
}

type TrackAlbum struct {
	Name   string       `json:"name"`
	Images []TrackImage `json:"images"`
}

type TrackImage struct {
	URL string `json:"url"`
}

type TrackExternals struct {
	Spotify string `json:"spotify"`
}

func (t TrackReference) Validate() error {
	if t.ID == "" || t.Name == "" {
		return ErrInvalidTrack
	}
	return nil
}

// ArtistNames returns the artist names joined for display and logging.
func (t TrackReference) ArtistNames() []string {
	names := make([]string, 0, len(t.Artists))
	for _, artist := range t.Artists {
		names = append(names, artist.Name)
	}
	return names
}
