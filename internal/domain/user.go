package domain

// TeamMembership links the session user to a team by id only; the team
// itself is fetched separately.
type TeamMembership struct {
	TeamID string
}

// User is session scoped and never part of a project aggregate.
type User struct {
	ID          string
	Email       string
	DisplayName string
	Role        string
	Memberships []TeamMembership
}

// TeamIDs returns the membership team ids in order.
func (u *User) TeamIDs() []string {
	ids := make([]string, 0, len(u.Memberships))
	for _, m := range u.Memberships {
		ids = append(ids, m.TeamID)
	}
	return ids
}
