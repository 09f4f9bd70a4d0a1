package models

// Column limits and labels for the catalog tables. Payload validation tags and
// the migrations use the same values.
const (
	AuthorFirstNameMaxLength     = 100
	AuthorLastNameMaxLength      = 100
	GenreNameMaxLength           = 200
	BookTitleMaxLength           = 200
	BookSummaryMaxLength         = 1000
	BookISBNLength               = 13
	BookInstanceImprintMaxLength = 200
	BookInstanceStatusLength     = 1
)

const (
	AuthorFirstNameLabel   = "first name"
	AuthorLastNameLabel    = "last name"
	AuthorDateOfBirthLabel = "date of birth"
	AuthorDateOfDeathLabel = "Died"

	GenreNameLabel = "name"

	BookTitleLabel   = "title"
	BookAuthorLabel  = "author"
	BookSummaryLabel = "summary"
	BookISBNLabel    = "ISBN"
	BookGenreLabel   = "genre"

	BookInstanceImprintLabel = "imprint"
	BookInstanceDueBackLabel = "due back"
	BookInstanceStatusLabel  = "status"
)

const (
	GenreNameHelpText      = "Enter a book genre (e.g. Science Fiction, French Poetry etc.)"
	BookSummaryHelpText    = "Enter a brief description of the book"
	BookISBNHelpText       = "13 Character ISBN number"
	BookGenreHelpText      = "Select a genre for this book"
	BookInstanceIDHelpText = "Unique ID for this particular book across whole library"
	BookInstanceStatusHelp = "Book availability"
)
