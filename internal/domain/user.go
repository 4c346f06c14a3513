package domain

import "fmt"

// User is a registered dog owner. Users are created lazily from ownership
// rows, keyed by their census id, and never mutated afterwards. Age is the
// midpoint of the reported age range; the district is referenced by id so the
// user record stays valid while district metadata is still being resolved.
type User struct {
	ID         int
	Age        int
	Gender     string
	DistrictID int
}

// VertexID returns the graph key for the owner.
func (u User) VertexID() string {
	return fmt.Sprintf("user:%d", u.ID)
}

// VertexKind identifies the owner vertex type.
func (u User) VertexKind() string {
	return KindUser
}
