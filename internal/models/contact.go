package models

// ContactModel stores a message submitted through the contact form.
type ContactModel struct {
	Base
	Name    string `json:"name"    gorm:"not null"`
	Email   string `json:"email"   gorm:"not null"`
	Subject string `json:"subject"`
	Message string `json:"message" gorm:"type:text;not null"`
	IsRead  bool   `json:"isRead"  gorm:"default:false;index"`
}

func (ContactModel) TableName() string { return "contacts" }
