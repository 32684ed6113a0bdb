package schema

// UserAccountTable represents the 'users' table
type UserAccountTable struct {
	Table       string
	ID          string
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	IsSuperuser string
	IsActive    string
	IsVerified  string
	GoogleSub   string
	CreatedAt   string
	UpdatedAt   string

	UniqueUsername  string
	UniqueEmail     string
	UniqueGoogleSub string
}

// UserAccount is the schema definition for users
var UserAccount = UserAccountTable{
	Table:       "users",
	ID:          "id",
	Username:    "username",
	Email:       "email",
	Password:    "password_hash",
	FirstName:   "first_name",
	LastName:    "last_name",
	IsSuperuser: "is_superuser",
	IsActive:    "is_active",
	IsVerified:  "is_verified",
	GoogleSub:   "google_sub",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",

	UniqueUsername:  "uq_users_username",
	UniqueEmail:     "uq_users_email",
	UniqueGoogleSub: "uq_users_google_sub",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Password, t.FirstName, t.LastName,
		t.IsSuperuser, t.IsActive, t.IsVerified, t.GoogleSub, t.CreatedAt, t.UpdatedAt,
	}
}
