package model

import "encoding/json"

// ActorKind distinguishes the two authenticated identities the platform knows.
type ActorKind string

const (
	// KindAdmin is a platform administrator, verified against the backend on startup.
	KindAdmin ActorKind = "admin"
	// KindStudent is an enrolled student, restored from the cached snapshot.
	KindStudent ActorKind = "student"
)

// Actor is the authenticated identity (admin or student) behind a session.
// The backend uses MongoDB-style "_id" for students and plain "id" for admins,
// so both are accepted and ID() resolves whichever is set.
type Actor struct {
	MongoID     string `json:"_id,omitempty"`
	PlainID     string `json:"id,omitempty"`
	Username    string `json:"username,omitempty"`    // admins
	StudentName string `json:"studentName,omitempty"` // students
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Education   string `json:"education,omitempty"`
}

// ID returns the actor's identifier, preferring the Mongo-style "_id".
func (a *Actor) ID() string {
	if a.MongoID != "" {
		return a.MongoID
	}
	return a.PlainID
}

// DisplayName returns the best human-readable name for the actor.
func (a *Actor) DisplayName() string {
	switch {
	case a.StudentName != "":
		return a.StudentName
	case a.Name != "":
		return a.Name
	case a.Username != "":
		return a.Username
	}
	return a.Email
}

// ParseActor decodes a persisted actor snapshot.
func ParseActor(data string) (*Actor, error) {
	var a Actor
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Snapshot serializes the actor for persistence alongside its token.
func (a *Actor) Snapshot() (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
