package models

// KeywordModel is a controlled-vocabulary topic tag. Name is the stable
// unique identifier; Slug is derived from DisplayName with numeric-suffix
// disambiguation and is also globally unique.
type KeywordModel struct {
	Base
	Name        string      `json:"name"        gorm:"uniqueIndex;not null"`
	DisplayName string      `json:"displayName" gorm:"not null"`
	Slug        string      `json:"slug"        gorm:"uniqueIndex;not null"`
	Aliases     StringArray `json:"aliases"     gorm:"type:json"`
	Description string      `json:"description" gorm:"type:text"`
	IsApproved  bool        `json:"isApproved"  gorm:"default:true;index"`
}

func (KeywordModel) TableName() string { return "keywords" }

// KeywordSummary is the embedded shape used when a keyword is referenced
// from a scholar or publication.
type KeywordSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Slug        string `json:"slug"`
}

// Summary returns the embedded reference shape for this keyword.
func (k KeywordModel) Summary() KeywordSummary {
	return KeywordSummary{ID: k.ID, Name: k.Name, DisplayName: k.DisplayName, Slug: k.Slug}
}
