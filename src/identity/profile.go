package identity

import (
	"strings"

	"docvault/src/model"
)

// ProfileFields carries optional profile attributes; nil means "leave as is".
type ProfileFields struct {
	Name  *string `json:"name" binding:"omitempty,max=128"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone" binding:"omitempty,max=32"`
}

func (pf ProfileFields) IsEmpty() bool {
	return pf.Name == nil && pf.Email == nil && pf.Phone == nil
}

func (pf ProfileFields) apply(identity *model.Identity) {
	if pf.Name != nil {
		identity.Name = strings.TrimSpace(*pf.Name)
	}
	if pf.Email != nil {
		identity.Email = strings.TrimSpace(*pf.Email)
	}
	if pf.Phone != nil {
		identity.Phone = strings.TrimSpace(*pf.Phone)
	}
}

func (pf ProfileFields) columns() map[string]interface{} {
	columns := map[string]interface{}{}
	if pf.Name != nil {
		columns["name"] = strings.TrimSpace(*pf.Name)
	}
	if pf.Email != nil {
		columns["email"] = strings.TrimSpace(*pf.Email)
	}
	if pf.Phone != nil {
		columns["phone"] = strings.TrimSpace(*pf.Phone)
	}
	return columns
}
