package dataset

// ColumnSpec describes one expected column of a dataset
type ColumnSpec struct {
	Name   string
	Kind   Kind
	Levels []string // ordered levels for categorical columns
}

// Schema is the ordered list of columns a dataset must provide
type Schema []ColumnSpec

// Names returns the schema column names in order
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, spec := range s {
		names[i] = spec.Name
	}
	return names
}

// Level orders published with the diamonds dataset, best grade first.
var (
	CutLevels     = []string{"Ideal", "Premium", "Very Good", "Good", "Fair"}
	ColorLevels   = []string{"D", "E", "F", "G", "H", "I", "J"}
	ClarityLevels = []string{"IF", "VVS1", "VVS2", "VS1", "VS2", "SI1", "SI2", "I1"}
)

// DiamondsSchema is the fixed layout of the diamonds dataset
var DiamondsSchema = Schema{
	{Name: "carat", Kind: KindNumeric},
	{Name: "cut", Kind: KindCategorical, Levels: CutLevels},
	{Name: "color", Kind: KindCategorical, Levels: ColorLevels},
	{Name: "clarity", Kind: KindCategorical, Levels: ClarityLevels},
	{Name: "depth", Kind: KindNumeric},
	{Name: "table", Kind: KindNumeric},
	{Name: "price", Kind: KindNumeric},
	{Name: "x", Kind: KindNumeric},
	{Name: "y", Kind: KindNumeric},
	{Name: "z", Kind: KindNumeric},
}
