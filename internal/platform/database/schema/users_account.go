package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table            string
	ID               string
	Username         string
	Email            string
	Role             string
	IsSuperuser      string
	FirstName        string
	LastName         string
	Bio              string
	ConfirmationHash string
	CreatedAt        string
	UpdatedAt        string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:            "users.account",
	ID:               "id",
	Username:         "username",
	Email:            "email",
	Role:             "role",
	IsSuperuser:      "issuperuser",
	FirstName:        "firstname",
	LastName:         "lastname",
	Bio:              "bio",
	ConfirmationHash: "confirmationhash",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Role, t.IsSuperuser,
		t.FirstName, t.LastName, t.Bio, t.ConfirmationHash,
		t.CreatedAt, t.UpdatedAt,
	}
}
