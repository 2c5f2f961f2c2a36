package models

// MedicalSpecialty represents a reference-data medical specialty offered
// in the booking form. Only active specialties are shown to users.
type MedicalSpecialty struct {
	BaseModel
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Code        string `gorm:"size:20;not null" json:"code"`
	Description string `gorm:"size:255" json:"description,omitempty"`
	Icon        string `gorm:"size:50" json:"icon,omitempty"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}
