package models

import "strings"

// Publication types. journal-article and conference-paper are legacy aliases
// still accepted on input; they normalize to article and conference.
const (
	PublicationTypeArticle    = "article"
	PublicationTypeBook       = "book"
	PublicationTypeChapter    = "chapter"
	PublicationTypeConference = "conference"
	PublicationTypeReport     = "report"
	PublicationTypeThesis     = "thesis"
	PublicationTypeOther      = "other"
)

var publicationTypes = map[string]string{
	PublicationTypeArticle:    PublicationTypeArticle,
	PublicationTypeBook:       PublicationTypeBook,
	PublicationTypeChapter:    PublicationTypeChapter,
	PublicationTypeConference: PublicationTypeConference,
	PublicationTypeReport:     PublicationTypeReport,
	PublicationTypeThesis:     PublicationTypeThesis,
	PublicationTypeOther:      PublicationTypeOther,
	"journal-article":         PublicationTypeArticle,
	"conference-paper":        PublicationTypeConference,
}

// NormalizePublicationType maps a raw type string (including legacy aliases)
// to its canonical value. Returns ("", false) for unknown types.
func NormalizePublicationType(raw string) (string, bool) {
	t, ok := publicationTypes[strings.ToLower(strings.TrimSpace(raw))]
	return t, ok
}

// PublicationModel is a bibliographic record, optionally linked to exactly
// one owning scholar via ScholarID.
type PublicationModel struct {
	Base
	Title   string      `json:"title"   gorm:"not null"`
	Authors StringArray `json:"authors" gorm:"type:json"`
	Year    int         `json:"year"    gorm:"index"`
	Type    string      `json:"type"    gorm:"default:article;index"`

	CitationDetail string  `json:"citationDetail"`
	Abstract       string  `json:"abstract" gorm:"type:text"`
	Quote          string  `json:"quote"    gorm:"type:text"`
	DOI            *string `json:"doi,omitempty"`
	URL            *string `json:"url,omitempty"`
	Citations      int     `json:"citations" gorm:"default:0"`

	IsVietnamLabourRelated bool        `json:"isVietnamLabourRelated" gorm:"default:false;index"`
	KeywordIDs             StringArray `json:"keywordIds"             gorm:"column:keyword_ids;type:json"`
	ScholarID              *string     `json:"scholarId"              gorm:"index"`
	Tags                   StringArray `json:"tags"                   gorm:"type:json"`

	Scholar *ScholarModel `json:"-" gorm:"foreignKey:ScholarID"`
}

func (PublicationModel) TableName() string { return "publications" }
