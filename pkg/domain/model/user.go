package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// User is the supervisor profile returned by the accounts endpoints
type User struct {
	ID             ID     `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Role           string `json:"role,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// FullName joins first and last names, falling back to the email
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// UserRef is a reference to a user embedded in another record. The backend
// sends either a bare primary key or a nested object.
type UserRef struct {
	ID    ID     `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type userRefObject struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	FullName  string `json:"full_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (r *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return r.ID.UnmarshalJSON(data)
	}

	var obj userRefObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	name := obj.Name
	if name == "" {
		name = obj.FullName
	}
	if name == "" {
		name = strings.TrimSpace(obj.FirstName + " " + obj.LastName)
	}

	*r = UserRef{ID: obj.ID, Name: name, Email: obj.Email}
	return nil
}

// Display returns a human readable label for the reference
func (r UserRef) Display() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Email != "":
		return r.Email
	default:
		return r.ID.String()
	}
}
