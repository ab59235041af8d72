package models

// Column types used by the grid besides plain data types.
const (
	ColumnGutter = "gutter"
	ColumnObject = "object"
	ColumnSelect = "select"
	ColumnString = "string"
	ColumnNumber = "number"
	ColumnFloat  = "float"
	ColumnInt    = "integer"
	ColumnTime   = "datetime"
)

// Gutter names.
const (
	GutterDirty       = "dirty"
	GutterSequence    = "sequence"
	GutterRowSelector = "row-selector"
)

// GridMode selects the grid presentation.
type GridMode string

const (
	ModeGrid GridMode = "GRID"
	ModeList GridMode = "LIST"
)

// GridConfig is the column and row configuration a screen hands to the grid.
type GridConfig struct {
	Rows       RowsConfig        `json:"rows"`
	Columns    []Column          `json:"columns"`
	Pagination *PaginationConfig `json:"pagination,omitempty"`
}

// Column returns a pointer to the named column so handlers can adjust its options.
func (g GridConfig) Column(name string) *Column {
	for i := range g.Columns {
		if g.Columns[i].Type != ColumnGutter && g.Columns[i].Name == name {
			return &g.Columns[i]
		}
	}
	return nil
}

// Clone copies the config deep enough that reference options can be changed
// per screen instance.
func (g GridConfig) Clone() GridConfig {
	out := g
	out.Columns = make([]Column, len(g.Columns))
	for i, c := range g.Columns {
		if c.Record != nil {
			rec := *c.Record
			if rec.Options != nil {
				opts := *rec.Options
				if opts.BasicArgs != nil {
					args := *opts.BasicArgs
					args.Filters = append([]Filter(nil), opts.BasicArgs.Filters...)
					opts.BasicArgs = &args
				}
				rec.Options = &opts
			}
			c.Record = &rec
		}
		out.Columns[i] = c
	}
	return out
}

// RowsConfig controls row selection and which row events the screen handles.
type RowsConfig struct {
	Selectable *Selectable `json:"selectable,omitempty"`
	Handlers   []string    `json:"handlers,omitempty"`
}

// Selectable enables the row selector.
type Selectable struct {
	Multiple bool `json:"multiple"`
}

// PaginationConfig switches the grid to infinite scrolling.
type PaginationConfig struct {
	Infinite bool `json:"infinite"`
}

// Column describes one grid column.
type Column struct {
	Type       string        `json:"type"`
	Name       string        `json:"name,omitempty"`
	GutterName string        `json:"gutterName,omitempty"`
	Multiple   bool          `json:"multiple,omitempty"`
	Header     string        `json:"header,omitempty"`
	Hidden     bool          `json:"hidden,omitempty"`
	Sortable   bool          `json:"sortable,omitempty"`
	Width      int           `json:"width,omitempty"`
	Record     *RecordConfig `json:"record,omitempty"`
	Imex       *Imex         `json:"imex,omitempty"`
}

// RecordConfig describes how a cell is rendered and edited.
type RecordConfig struct {
	Editable bool           `json:"editable"`
	Align    string         `json:"align,omitempty"`
	Select   []string       `json:"select,omitempty"`
	Options  *LookupOptions `json:"options,omitempty"`
}

// LookupOptions configure a reference picker.
type LookupOptions struct {
	QueryName string         `json:"queryName"`
	Select    []LookupColumn `json:"select,omitempty"`
	List      *LookupList    `json:"list,omitempty"`
	BasicArgs *BasicArgs     `json:"basicArgs,omitempty"`
}

// LookupColumn is a column of the picker popup.
type LookupColumn struct {
	Name   string `json:"name"`
	Header string `json:"header,omitempty"`
	Type   string `json:"type,omitempty"`
	Width  int    `json:"width,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
}

// LookupList names the fields shown in list mode.
type LookupList struct {
	Fields []string `json:"fields"`
}

// BasicArgs are filters the picker always applies.
type BasicArgs struct {
	Filters []Filter `json:"filters,omitempty"`
}

// Imex is the import/export metadata of a column.
type Imex struct {
	Header  string       `json:"header"`
	Key     string       `json:"key"`
	Width   int          `json:"width"`
	Type    string       `json:"type"`
	ArrData []ImexOption `json:"arrData,omitempty"`
}

// ImexOption maps a spreadsheet value to the value stored in the record.
type ImexOption struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// SearchField is one field of the search form.
type SearchField struct {
	Label   string        `json:"label"`
	Name    string        `json:"name"`
	Type    string        `json:"type"`
	Options *SearchLookup `json:"options,omitempty"`
	Props   SearchProps   `json:"props"`
}

// SearchLookup configures an object search field.
type SearchLookup struct {
	QueryName string `json:"queryName"`
	Field     string `json:"field,omitempty"`
}

// SearchProps carries the operator applied to the entered value.
type SearchProps struct {
	SearchOper  string `json:"searchOper"`
	Placeholder string `json:"placeholder,omitempty"`
}
