package model

// Series titles the noticeboard partitions characters into.  The set is
// fixed by the office's productions; clients render one tab per title.
const (
	SeriesAfterSchool  = "After School"
	SeriesEmpireOffice = "Empire Office"
)

// SeriesTitles lists every known series in display order.
var SeriesTitles = []string{SeriesAfterSchool, SeriesEmpireOffice}

// Character is a noticeboard entry in the `bacheca_characters` table.  The
// three *Path fields are Asset Store relative paths (weak references: a
// missing file on disk is treated as "no asset", never an error) and are
// each written only by their dedicated upload operation.  LastModified is
// refreshed by every mutation of the row and doubles as the cache-busting
// token on asset URLs.
type Character struct {
	ID           int64  // bacheca_characters.id
	SeriesTitle  string // bacheca_characters.series_title
	Name         string // bacheca_characters.character_name
	Role         string // bacheca_characters.role
	ImagePath    string // bacheca_characters.image_path
	ScriptText   string // bacheca_characters.script_text
	ScriptPath   string // bacheca_characters.script_path
	ExpiryDate   string // bacheca_characters.expiry_date
	MovPath      string // bacheca_characters.mov_path
	CreatedBy    int64  // bacheca_characters.created_by
	LastModified string // bacheca_characters.last_modified
}

// CharacterPatch carries the individually patchable fields of a character.
// Nil pointers mean "leave untouched"; an all-nil patch is invalid.
type CharacterPatch struct {
	SeriesTitle *string
	Name        *string
	Role        *string
	ExpiryDate  *string
	ScriptText  *string
}

// Empty reports whether the patch carries no field at all.
func (p CharacterPatch) Empty() bool {
	return p.SeriesTitle == nil && p.Name == nil && p.Role == nil &&
		p.ExpiryDate == nil && p.ScriptText == nil
}
