package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" gorm:"uniqueIndex"`
	Password  string `json:"password"`
	// Default trip preferences, e.g. ["Foodie", "History"]. Used to
	// pre-fill the generation form.
	Preferences datatypes.JSON `json:"preferences"`
}

// Custom JSON marshaling: preferences come out as a plain string slice and
// the password hash never leaves the server.
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		*Alias
		Password    string   `json:"password,omitempty"`
		Preferences []string `json:"preferences"`
	}{
		Alias:       (*Alias)(u),
		Preferences: []string{},
	}

	if u.Preferences != nil {
		var preferences []string
		if err := json.Unmarshal(u.Preferences, &preferences); err == nil {
			aux.Preferences = preferences
		}
	}

	return json.Marshal(aux)
}
