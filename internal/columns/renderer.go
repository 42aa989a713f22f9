package columns

import (
	"fmt"
	"io"
	"strings"
)

const (
	noCommitsPlaceholderConstant = "(no commits)"
	continuationMarkerConstant   = "....."
	emptyTitleConstant           = ""
	lineTerminatorConstant       = "\n"
	boxErrorTemplateConstant     = "unable to box %s: %w"
	writeErrorTemplateConstant   = "unable to write branch drawing: %w"
	ourColumnLabelConstant       = "local commits"
	theirColumnLabelConstant     = "other branch commits"
	previousCommitsLabelConstant = "shared history"
	titleRowCountConstant        = 1
	headerRowCountConstant       = 2
)

// Input carries the commit lines and branch names for one drawing.
type Input struct {
	Ours            []string
	Theirs          []string
	PreviousCommits []string
	OurBranch       string
	TheirBranch     string
}

// Renderer lays out divergent branches as two boxes over a shared-history tail.
type Renderer struct {
	layout Layout
}

// NewRenderer constructs a Renderer using the provided geometry.
func NewRenderer(layout Layout) *Renderer {
	return &Renderer{layout: layout}
}

// FormatCommits formats the drawing with DefaultLayout.
func FormatCommits(ours []string, theirs []string, previousCommits []string, ourBranch string, theirBranch string) ([]string, error) {
	return NewRenderer(DefaultLayout()).FormatCommits(Input{
		Ours:            ours,
		Theirs:          theirs,
		PreviousCommits: previousCommits,
		OurBranch:       ourBranch,
		TheirBranch:     theirBranch,
	})
}

// Render formats the whole drawing before writing it, so a formatting error leaves the writer untouched.
func (renderer *Renderer) Render(writer io.Writer, input Input) error {
	formattedLines, formatError := renderer.FormatCommits(input)
	if formatError != nil {
		return formatError
	}

	var outputBuilder strings.Builder
	for _, formattedLine := range formattedLines {
		outputBuilder.WriteString(formattedLine)
		outputBuilder.WriteString(lineTerminatorConstant)
	}

	if _, writeError := io.WriteString(writer, outputBuilder.String()); writeError != nil {
		return fmt.Errorf(writeErrorTemplateConstant, writeError)
	}
	return nil
}

// FormatCommits returns the printable rows: both branch boxes side by side,
// most recent commits aligned at the bottom, followed by the indented
// shared-history tail.
func (renderer *Renderer) FormatCommits(input Input) ([]string, error) {
	ourLines, theirLines := alignColumns(withPlaceholder(input.Ours), withPlaceholder(input.Theirs))

	ourBox, ourBoxError := Boxify(ourLines, input.OurBranch)
	if ourBoxError != nil {
		return nil, fmt.Errorf(boxErrorTemplateConstant, ourColumnLabelConstant, ourBoxError)
	}
	theirBox, theirBoxError := Boxify(theirLines, input.TheirBranch)
	if theirBoxError != nil {
		return nil, fmt.Errorf(boxErrorTemplateConstant, theirColumnLabelConstant, theirBoxError)
	}

	lastRowIndex := len(ourBox) - 1
	ourBox[lastRowIndex] = placeJunction(ourBox[lastRowIndex], renderer.layout.LeftJunctionOffset, JunctionDown)
	theirBox[lastRowIndex] = placeJunction(theirBox[lastRowIndex], renderer.layout.RightJunctionOffset, JunctionDown)

	gutter := strings.Repeat(paddingCharacterConstant, renderer.layout.GutterWidth)
	formattedLines := make([]string, 0, len(ourBox)+len(input.PreviousCommits)+headerRowCountConstant)
	for rowIndex := range ourBox {
		formattedLines = append(formattedLines, padRight(ourBox[rowIndex], renderer.layout.ColumnWidth)+gutter+padRight(theirBox[rowIndex], renderer.layout.ColumnWidth))
	}

	tailLines, tailError := renderer.formatTail(input.PreviousCommits)
	if tailError != nil {
		return nil, tailError
	}

	return append(formattedLines, tailLines...), nil
}

func (renderer *Renderer) formatTail(previousCommits []string) ([]string, error) {
	tailCommits := make([]string, 0, len(previousCommits)+1)
	tailCommits = append(tailCommits, previousCommits...)
	tailCommits = append(tailCommits, continuationMarkerConstant)

	tailBox, tailBoxError := Boxify(tailCommits, emptyTitleConstant)
	if tailBoxError != nil {
		return nil, fmt.Errorf(boxErrorTemplateConstant, previousCommitsLabelConstant, tailBoxError)
	}

	junctionRowIndex := len(tailBox) - 1
	droppedRowCount := headerRowCountConstant
	if renderer.layout.TailTopBorder {
		junctionRowIndex = titleRowCountConstant
		droppedRowCount = titleRowCountConstant
	}

	leftOffset, rightOffset := renderer.layout.TailJunctionOffsets()
	tailBox[junctionRowIndex] = placeJunction(tailBox[junctionRowIndex], rightOffset, JunctionUp)
	tailBox[junctionRowIndex] = placeJunction(tailBox[junctionRowIndex], leftOffset, JunctionUp)

	indentation := strings.Repeat(paddingCharacterConstant, renderer.layout.TailIndent)
	tailLines := make([]string, 0, len(tailBox)-droppedRowCount)
	for _, tailRow := range tailBox[droppedRowCount:] {
		tailLines = append(tailLines, indentation+tailRow)
	}
	return tailLines, nil
}

func withPlaceholder(commitLines []string) []string {
	if len(commitLines) == 0 {
		return []string{noCommitsPlaceholderConstant}
	}
	return commitLines
}

// alignColumns prepends blank lines to the shorter column so both end on their most recent commit row.
func alignColumns(ourLines []string, theirLines []string) ([]string, []string) {
	return padFront(ourLines, len(theirLines)), padFront(theirLines, len(ourLines))
}

func padFront(lines []string, targetLength int) []string {
	missingCount := targetLength - len(lines)
	if missingCount <= 0 {
		return lines
	}
	return append(make([]string, missingCount), lines...)
}

// placeJunction replaces a horizontal rule cell strictly between the corners; other offsets leave the border unchanged.
func placeJunction(border string, offset int, junction rune) string {
	if offset <= 0 || offset >= len([]rune(border))-1 {
		return border
	}
	replaced, replaceError := ReplacePosition(border, offset, junction)
	if replaceError != nil {
		return border
	}
	return replaced
}
