package domain

// User is an operator account used only to authenticate API calls. Tenant
// resolution and permissions are collaborator concerns.
type User struct {
	UserID   string `json:"userID"` // Primary Key (UUID)
	Username string `json:"username"`
	Name     string `json:"name"`
	AuditFields
}
