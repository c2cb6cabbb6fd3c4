package domain

// Principal is the authenticated caller derived from a verified token.
type Principal struct {
	TechnicianID int64
	Username     string
	Role         string
	Claims       map[string]any
}

// Session is what a successful login hands back.
type Session struct {
	AccessToken string
	Technician  Technician
}
