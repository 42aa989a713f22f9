package commitlog

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	outputLineSeparatorConstant       = "\n"
	carriageReturnConstant            = "\r"
	undecodableOutputTemplateConstant = "%s produced output that is not valid UTF-8"
)

// UndecodableOutputError reports git output that could not be read as UTF-8 text.
type UndecodableOutputError struct {
	Operation string
}

// Error names the operation whose output was rejected.
func (outputError UndecodableOutputError) Error() string {
	return fmt.Sprintf(undecodableOutputTemplateConstant, outputError.Operation)
}

// splitOutputLines returns one entry per output line. The trailing newline and
// carriage returns are dropped; leading and trailing spaces inside a line are kept.
func splitOutputLines(operation string, output string) ([]string, error) {
	if !utf8.ValidString(output) {
		return nil, UndecodableOutputError{Operation: operation}
	}

	trimmedOutput := strings.TrimSuffix(output, outputLineSeparatorConstant)
	if len(trimmedOutput) == 0 {
		return []string{}, nil
	}

	outputLines := strings.Split(trimmedOutput, outputLineSeparatorConstant)
	for lineIndex, outputLine := range outputLines {
		outputLines[lineIndex] = strings.TrimSuffix(outputLine, carriageReturnConstant)
	}
	return outputLines, nil
}

func firstOutputLine(operation string, output string) (string, error) {
	outputLines, splitError := splitOutputLines(operation, output)
	if splitError != nil {
		return "", splitError
	}
	if len(outputLines) == 0 {
		return "", nil
	}
	return strings.TrimSpace(outputLines[0]), nil
}
