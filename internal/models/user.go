package models

// Role identifies which side of the portal a session belongs to.
type Role string

const (
	RoleReviewer Role = "reviewer"
	RoleAuthor   Role = "author"
)

// ValidRoles defines the roles a session may carry
var ValidRoles = map[Role]bool{
	RoleReviewer: true,
	RoleAuthor:   true,
}

// User is the identity held in a portal session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// DisplayName is the name, or the email when no name is known.
func (u User) DisplayName() string {
	return firstNonEmpty(u.Name, u.Email)
}

// AuthorProfile is the author statistics record.
type AuthorProfile struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	TotalArticles    int    `json:"total_articles"`
	AcceptedArticles int    `json:"accepted_articles"`
	PendingArticles  int    `json:"pending_articles"`
}

// FullName joins first and last name.
func (p AuthorProfile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// AuthorReview is one row of an author's recent review activity.
type AuthorReview struct {
	ArticleTitle string `json:"article_title"`
	Status       string `json:"status"`
	Date         string `json:"date"`
}
