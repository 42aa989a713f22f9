package columns

const (
	defaultColumnWidthConstant         = 62
	defaultGutterWidthConstant         = 4
	defaultTailIndentConstant          = 33
	defaultLeftJunctionOffsetConstant  = 45
	defaultRightJunctionOffsetConstant = 7
)

// Layout fixes the geometry of the two-column drawing.
//
// The defaults match commit lines produced by commitlog.CommitFormat
// (short hash, 30-cell subject, 18-cell author: boxes 61 cells wide). If that
// format changes, the column width and junction offsets must change with it.
type Layout struct {
	// ColumnWidth is the field width each side-by-side box is padded to.
	ColumnWidth int
	// GutterWidth is the number of spaces between the two columns.
	GutterWidth int
	// TailIndent is the number of spaces before each shared-history row.
	TailIndent int
	// LeftJunctionOffset is where ┬ goes in the left box's bottom border.
	LeftJunctionOffset int
	// RightJunctionOffset is where ┬ goes in the right box's bottom border.
	RightJunctionOffset int
	// TailTopBorder keeps the shared-history top border and puts the ┴ junctions on it.
	TailTopBorder bool
}

// DefaultLayout returns the geometry for the standard commit format.
func DefaultLayout() Layout {
	return Layout{
		ColumnWidth:         defaultColumnWidthConstant,
		GutterWidth:         defaultGutterWidthConstant,
		TailIndent:          defaultTailIndentConstant,
		LeftJunctionOffset:  defaultLeftJunctionOffsetConstant,
		RightJunctionOffset: defaultRightJunctionOffsetConstant,
	}
}

// TailJunctionOffsets returns the tail border positions lying directly under
// the left and right ┬ junctions.
func (layout Layout) TailJunctionOffsets() (int, int) {
	leftOffset := layout.LeftJunctionOffset - layout.TailIndent
	rightOffset := layout.ColumnWidth + layout.GutterWidth + layout.RightJunctionOffset - layout.TailIndent
	return leftOffset, rightOffset
}
