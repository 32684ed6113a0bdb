package schema

// BookTable represents the 'books' table
type BookTable struct {
	Table     string
	ID        string
	Title     string
	Year      string
	AuthorID  string
	CreatedAt string
	UpdatedAt string

	// UniqueTitle is the constraint guarding normalized titles.
	UniqueTitle string
	// ForeignAuthor is the constraint binding books to existing authors.
	ForeignAuthor string
	// CheckYear bounds the publication year.
	CheckYear string
}

// Book is the schema definition for books
var Book = BookTable{
	Table:         "books",
	ID:            "id",
	Title:         "title",
	Year:          "year",
	AuthorID:      "author_id",
	CreatedAt:     "created_at",
	UpdatedAt:     "updated_at",
	UniqueTitle:   "uq_books_title",
	ForeignAuthor: "fk_books_author",
	CheckYear:     "ck_books_year",
}

// Columns returns all standard column names
func (t BookTable) Columns() []string {
	return []string{t.ID, t.Title, t.Year, t.AuthorID, t.CreatedAt, t.UpdatedAt}
}
