package columns

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	topLeftCornerConstant         = "┌"
	topRightCornerConstant        = "┐"
	bottomLeftCornerConstant      = "└"
	bottomRightCornerConstant     = "┘"
	horizontalRuleConstant        = "─"
	verticalRuleConstant          = "│"
	paddingCharacterConstant      = " "
	emptyColumnMessageConstant    = "box requires at least one line"
	positionErrorTemplateConstant = "position %d outside of text with %d characters"
)

// displayWidth measures terminal cells with ambiguous-width glyphs, box drawing included, counted as one cell.
var displayWidth = newDisplayWidthCondition()

// Junction glyphs spliced into borders to connect boxes vertically.
const (
	JunctionDown rune = '┬'
	JunctionUp   rune = '┴'
)

// ErrEmptyColumn indicates Boxify received no lines.
var ErrEmptyColumn = errors.New(emptyColumnMessageConstant)

// PositionOutOfRangeError reports a ReplacePosition index outside the text.
type PositionOutOfRangeError struct {
	Position int
	Length   int
}

// Error describes the invalid position.
func (positionError PositionOutOfRangeError) Error() string {
	return fmt.Sprintf(positionErrorTemplateConstant, positionError.Position, positionError.Length)
}

// Column is an ordered list of commit lines shown under a branch title.
type Column struct {
	Title string
	Lines []string
}

// Width returns the widest line in display cells.
func (column Column) Width() int {
	maximumWidth := 0
	for _, line := range column.Lines {
		if lineWidth := displayWidth.StringWidth(line); lineWidth > maximumWidth {
			maximumWidth = lineWidth
		}
	}
	return maximumWidth
}

// Box frames the column. See Boxify.
func (column Column) Box() ([]string, error) {
	return Boxify(column.Lines, column.Title)
}

// Boxify frames lines in a border and returns len(lines)+3 rows: the centered
// title, the top border, one row per line, and the bottom border. Lines of
// unequal width are right-padded to the widest one.
func Boxify(lines []string, title string) ([]string, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyColumn
	}

	interiorWidth := Column{Lines: lines}.Width()
	horizontalRule := strings.Repeat(horizontalRuleConstant, interiorWidth)

	boxedLines := make([]string, 0, len(lines)+3)
	boxedLines = append(boxedLines, centerText(title, interiorWidth+2))
	boxedLines = append(boxedLines, topLeftCornerConstant+horizontalRule+topRightCornerConstant)
	for _, line := range lines {
		boxedLines = append(boxedLines, verticalRuleConstant+padRight(line, interiorWidth)+verticalRuleConstant)
	}
	boxedLines = append(boxedLines, bottomLeftCornerConstant+horizontalRule+bottomRightCornerConstant)

	return boxedLines, nil
}

// ReplacePosition returns text with the character at the zero-based position replaced.
func ReplacePosition(text string, position int, replacement rune) (string, error) {
	characters := []rune(text)
	if position < 0 || position >= len(characters) {
		return "", PositionOutOfRangeError{Position: position, Length: len(characters)}
	}
	characters[position] = replacement
	return string(characters), nil
}

func newDisplayWidthCondition() *runewidth.Condition {
	condition := runewidth.NewCondition()
	condition.EastAsianWidth = false
	return condition
}

func padRight(text string, width int) string {
	missingWidth := width - displayWidth.StringWidth(text)
	if missingWidth <= 0 {
		return text
	}
	return text + strings.Repeat(paddingCharacterConstant, missingWidth)
}

// centerText puts the odd padding cell on the right; text wider than width is returned unchanged.
func centerText(text string, width int) string {
	missingWidth := width - displayWidth.StringWidth(text)
	if missingWidth <= 0 {
		return text
	}
	leftPadding := missingWidth / 2
	return strings.Repeat(paddingCharacterConstant, leftPadding) + text + strings.Repeat(paddingCharacterConstant, missingWidth-leftPadding)
}
