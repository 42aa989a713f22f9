package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	toggleTypeNameConstant             = "bool"
	toggleTrueValueConstant            = "true"
	toggleFalseValueConstant           = "false"
	toggleParseErrorTemplateConstant   = "invalid toggle value %q"
	toggleUsageTemplateConstant        = "`%s` %s"
	toggleDefaultTruePlaceholderConst  = "<YES|no>"
	toggleDefaultFalsePlaceholderConst = "<yes|NO>"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"yes":   true,
	"on":    true,
	"1":     true,
	"y":     true,
	"false": false,
	"no":    false,
	"off":   false,
	"0":     false,
	"n":     false,
}

// AddToggleFlag registers a boolean flag that also accepts yes/no and on/off.
// A bare flag sets the value to true. The value is read back with pflag's GetBool.
func AddToggleFlag(flagSet *pflag.FlagSet, name string, defaultValue bool, description string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	flagSet.Var(&toggleValue{value: defaultValue}, name, toggleUsage(defaultValue, description))
	flagSet.Lookup(name).NoOptDefVal = toggleTrueValueConstant
}

func toggleUsage(defaultValue bool, description string) string {
	placeholder := toggleDefaultFalsePlaceholderConst
	if defaultValue {
		placeholder = toggleDefaultTruePlaceholderConst
	}
	return strings.TrimSpace(fmt.Sprintf(toggleUsageTemplateConstant, placeholder, strings.TrimSpace(description)))
}

type toggleValue struct {
	value bool
}

func (toggle *toggleValue) Set(rawValue string) error {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		normalizedValue = toggleTrueValueConstant
	}

	parsedValue, known := toggleLiterals[normalizedValue]
	if !known {
		return fmt.Errorf(toggleParseErrorTemplateConstant, rawValue)
	}
	toggle.value = parsedValue
	return nil
}

func (toggle *toggleValue) String() string {
	if toggle != nil && toggle.value {
		return toggleTrueValueConstant
	}
	return toggleFalseValueConstant
}

func (toggle *toggleValue) Type() string {
	return toggleTypeNameConstant
}
