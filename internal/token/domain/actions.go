package domain

// Action describes a host action that can appear in a restriction scope.
type Action struct {
	Name            string `json:"name"`
	Abbr            string `json:"abbr"`
	TakesDatabase   bool   `json:"takes_database"`
	TakesResource   bool   `json:"takes_resource"`
	DefaultAllowed  bool   `json:"default_allowed"`
	DescriptionText string `json:"description"`
}

// Actions is the catalogue offered by the create-token form.
var Actions = []Action{
	{Name: "view-instance", Abbr: "vi", DefaultAllowed: true, DescriptionText: "View instance"},
	{Name: "view-database", Abbr: "vd", TakesDatabase: true, DefaultAllowed: true, DescriptionText: "View database"},
	{Name: "view-database-download", Abbr: "vdd", TakesDatabase: true, DefaultAllowed: true, DescriptionText: "Download database file"},
	{Name: "view-table", Abbr: "vt", TakesDatabase: true, TakesResource: true, DefaultAllowed: true, DescriptionText: "View table"},
	{Name: "view-query", Abbr: "vq", TakesDatabase: true, TakesResource: true, DefaultAllowed: true, DescriptionText: "View named query results"},
	{Name: "execute-sql", Abbr: "es", TakesDatabase: true, DefaultAllowed: true, DescriptionText: "Execute read-only SQL queries"},
	{Name: "permissions-debug", Abbr: "pd", DescriptionText: "Access permission debug tool"},
	{Name: "debug-menu", Abbr: "dm", DescriptionText: "View debug menu items"},
	{Name: "insert-row", Abbr: "ir", TakesDatabase: true, TakesResource: true, DescriptionText: "Insert rows"},
	{Name: "delete-row", Abbr: "dr", TakesDatabase: true, TakesResource: true, DescriptionText: "Delete rows"},
	{Name: "update-row", Abbr: "ur", TakesDatabase: true, TakesResource: true, DescriptionText: "Update rows"},
	{Name: "create-table", Abbr: "ct", TakesDatabase: true, DescriptionText: "Create tables"},
	{Name: "alter-table", Abbr: "at", TakesDatabase: true, TakesResource: true, DescriptionText: "Alter tables"},
	{Name: "drop-table", Abbr: "dt", TakesDatabase: true, TakesResource: true, DescriptionText: "Drop tables"},
}

var (
	abbrByName = map[string]string{}
	nameByAbbr = map[string]string{}
)

func init() {
	for _, a := range Actions {
		abbrByName[a.Name] = a.Abbr
		nameByAbbr[a.Abbr] = a.Name
	}
}

// AbbreviateAction returns the short code for a known action name. Unknown names and values
// that are already abbreviations are returned unchanged.
func AbbreviateAction(action string) string {
	if abbr, ok := abbrByName[action]; ok {
		return abbr
	}
	return action
}

// ExpandAction returns the full name for a known abbreviation, or the input unchanged.
func ExpandAction(action string) string {
	if name, ok := nameByAbbr[action]; ok {
		return name
	}
	return action
}
