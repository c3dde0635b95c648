package models

// LicenseType is one driving-license category (B, A1, C+E, ...). The tree is
// one level deep: a parent license implicitly includes all of its children's
// questions when used as a filter.
type LicenseType struct {
	ID       string `bson:"_id,omitempty" json:"id"`
	Code     string `bson:"code" json:"code"`
	Name     string `bson:"name" json:"name"`
	ParentID string `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
}

func (l *LicenseType) IsParent() bool {
	return l.ParentID == ""
}
