package schema

// AuthorTable represents the 'authors' table
type AuthorTable struct {
	Table     string
	ID        string
	Name      string
	CreatedAt string
	UpdatedAt string

	// UniqueName is the constraint guarding normalized names.
	UniqueName string
}

// Author is the schema definition for authors
var Author = AuthorTable{
	Table:      "authors",
	ID:         "id",
	Name:       "name",
	CreatedAt:  "created_at",
	UpdatedAt:  "updated_at",
	UniqueName: "uq_authors_name",
}

// Columns returns all standard column names
func (t AuthorTable) Columns() []string {
	return []string{t.ID, t.Name, t.CreatedAt, t.UpdatedAt}
}
