package models

// Scholar status values.
const (
	ScholarStatusActive = "active"
	ScholarStatusHidden = "hidden"
)

// ScholarModel is a researcher profile in the public directory.
//
// PublicationCount and RelatedPublicationCount are denormalized caches of the
// live publication counts. They are recomputed with a full recount after
// every link/unlink and must never be treated as a source of truth.
type ScholarModel struct {
	Base
	Slug           string `json:"slug"           gorm:"uniqueIndex;not null"`
	FullName       string `json:"fullName"       gorm:"not null"`
	NormalizedName string `json:"normalizedName" gorm:"index"`

	Affiliation string      `json:"affiliation"`
	Position    string      `json:"position"`
	Bio         string      `json:"bio"          gorm:"type:text"`
	Avatar      string      `json:"avatar"`
	Email       string      `json:"email"`
	WebsiteURL  string      `json:"websiteUrl"`
	ScholarURL  string      `json:"scholarUrl"`
	Interests   StringArray `json:"interests"    gorm:"type:json"`

	Status              string      `json:"status"              gorm:"default:active;index"`
	FrequentContributor bool        `json:"frequentContributor" gorm:"default:false;index"`
	KeywordIDs          StringArray `json:"keywordIds"          gorm:"column:keyword_ids;type:json"`

	PublicationCount        int `json:"publicationCount"        gorm:"default:0"`
	RelatedPublicationCount int `json:"relatedPublicationCount" gorm:"default:0"`
}

func (ScholarModel) TableName() string { return "scholars" }

// ScholarSummary is the embedded shape used when a scholar is referenced
// from another record.
type ScholarSummary struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Slug     string `json:"slug"`
}

// Summary returns the embedded reference shape for this scholar.
func (s ScholarModel) Summary() ScholarSummary {
	return ScholarSummary{ID: s.ID, FullName: s.FullName, Slug: s.Slug}
}
