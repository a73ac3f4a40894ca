package domain

type TeamMember struct {
	UserID string
	Role   MemberRole
}

type Team struct {
	ID          string
	Name        string
	Description string
	Members     []TeamMember
}
