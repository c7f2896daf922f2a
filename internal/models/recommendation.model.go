package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SystemSubmitterID is the sentinel submitter for catalog-fallback rows. A
// non-null sentinel keeps submitter_id indexable and lets the eligibility
// predicate stay a plain column comparison.
var SystemSubmitterID = uuid.Nil

// SystemRecommenderName is the attribution label for catalog-fallback draws.
const SystemRecommenderName = "MuseLetter"

// Recommendation is one entry in the shared pool. Rows are created on submit
// (or synthesized on a catalog-fallback draw), transition to consumed exactly
// once, and are never deleted. The full table doubles as history.
type Recommendation struct {
	BaseUUIDModel
	SubmitterID uuid.UUID `gorm:"type:uuid;not null;index"  json:"userId"`
	Submitter   *User     `gorm:"foreignKey:SubmitterID"    json:"user,omitempty"`

	// TrackID duplicates track->id so the per-user duplicate constraint and
	// eligibility queries stay on plain columns.
	TrackID string                                  `gorm:"type:text;not null;index" json:"trackId"`
	Track   datatypes.JSONType[TrackReference]      `gorm:"type:jsonb;not null"      json:"track"`

	Consumed       bool       `gorm:"type:bool;not null;default:false;index" json:"consumed"`
	ConsumedBy     *uuid.UUID `gorm:"type:uuid;index"                        json:"consumedBy,omitempty"`
	ConsumedAt     *time.Time `gorm:"type:timestamp"                         json:"consumedAt,omitempty"`
	IsSystemOrigin bool       `gorm:"type:bool;not null;default:false;index" json:"isSystemRecommendation"`
}

// TrackRef unwraps the stored track document.
func (r *Recommendation) TrackRef() TrackReference {
	return r.Track.Data()
}

// DrawResult is what a requester receives from one draw: the track plus
// attribution. RecommenderCountry is nil for system-origin draws so the JSON
// carries an explicit null instead of a placeholder country.
type DrawResult struct {
	Track              TrackReference `json:"track"`
	IsSystemOrigin     bool           `json:"isSystemRecommendation"`
	RecommendedBy      string         `json:"recommendedBy"`
	RecommenderCountry *string        `json:"recommenderCountry"`
}

// PoolStats aggregates pool counters for one requesting user.
type PoolStats struct {
	TotalInPool               int64 `json:"totalInPool"`
	TotalConsumed             int64 `json:"totalConsumed"`
	UserInPool                int64 `json:"userInPool"`
	UserConsumed              int64 `json:"userConsumed"`
	SystemRecommendations     int64 `json:"systemRecommendations"`
	UserSystemRecommendations int64 `json:"userSystemRecommendations"`
}
