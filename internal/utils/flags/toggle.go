package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue           = "true"
	toggleFalseCanonicalValue          = "false"
	toggleValueTypeConstant            = "bool"
	toggleParseErrorTemplate           = "invalid toggle value %q"
	toggleTruePlaceholderConstant      = "<YES|no>"
	toggleFalsePlaceholderConstant     = "<yes|NO>"
	toggleUsageTemplateConstant        = "`%s` %s"
	toggleBareUsageTemplateConstant    = "`%s`"
	longFlagPrefixConstant             = "--"
	shortFlagPrefixConstant            = "-"
	flagValueSeparatorConstant         = "="
	argumentTerminatorConstant         = "--"
	shorthandLengthConstant            = 1
	toggleArgumentPairLengthConstant   = 2
	toggleArgumentSingleLengthConstant = 1
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"yes":   true,
	"on":    true,
	"1":     true,
	"t":     true,
	"y":     true,
	"false": false,
	"no":    false,
	"off":   false,
	"0":     false,
	"f":     false,
	"n":     false,
}

// toggleRegistry remembers toggle names so NormalizeToggleArguments can recognize them.
type toggleRegistry struct {
	mutex      sync.RWMutex
	names      map[string]struct{}
	shorthands map[string]struct{}
}

var registeredToggles = &toggleRegistry{
	names:      map[string]struct{}{},
	shorthands: map[string]struct{}{},
}

func (registry *toggleRegistry) add(name string, shorthand string) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	registry.names[name] = struct{}{}
	if len(shorthand) > 0 {
		registry.shorthands[shorthand] = struct{}{}
	}
}

func (registry *toggleRegistry) contains(name string, short bool) bool {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	if short {
		_, exists := registry.shorthands[name]
		return exists
	}
	_, exists := registry.names[name]
	return exists
}

// AddToggleFlag registers a boolean flag that accepts yes/no, on/off, true/false and 1/0.
// A bare flag means yes. target may be nil when the value is read back through the flag set.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	flag := flagSet.VarPF(newToggleFlagValue(defaultValue, target), name, shorthand, usage)
	flag.NoOptDefVal = toggleTrueCanonicalValue
	flag.Usage = formatToggleUsage(usage, defaultValue)

	registeredToggles.add(name, shorthand)
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleFalsePlaceholderConstant
	if defaultValue {
		placeholder = toggleTruePlaceholderConstant
	}
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(toggleBareUsageTemplateConstant, placeholder)
	}
	return fmt.Sprintf(toggleUsageTemplateConstant, placeholder, trimmedDescription)
}

// NormalizeToggleArguments joins "--flag value" into "--flag=value" for registered toggles.
// The following argument is only consumed when it is a toggle literal, so "--flag path" keeps path positional.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); {
		current := arguments[index]
		if current == argumentTerminatorConstant {
			normalized = append(normalized, arguments[index:]...)
			break
		}

		var next string
		if index+1 < len(arguments) {
			next = arguments[index+1]
		}
		joinedArgument, consumed := joinToggleValue(current, next)
		normalized = append(normalized, joinedArgument)
		index += consumed
	}
	return normalized
}

func joinToggleValue(current string, next string) (string, int) {
	name, short, hasInlineValue := splitFlagArgument(current)
	if len(name) == 0 || hasInlineValue || !registeredToggles.contains(name, short) {
		return current, toggleArgumentSingleLengthConstant
	}
	if _, isLiteral := lookupToggleLiteral(next); !isLiteral {
		return current, toggleArgumentSingleLengthConstant
	}
	return current + flagValueSeparatorConstant + next, toggleArgumentPairLengthConstant
}

// splitFlagArgument returns the flag name an argument refers to, whether it is a shorthand, and
// whether it already carries an inline value. Non-flag arguments return an empty name.
func splitFlagArgument(argument string) (string, bool, bool) {
	var trimmed string
	short := false
	switch {
	case strings.HasPrefix(argument, longFlagPrefixConstant):
		trimmed = strings.TrimPrefix(argument, longFlagPrefixConstant)
	case strings.HasPrefix(argument, shortFlagPrefixConstant):
		trimmed = strings.TrimPrefix(argument, shortFlagPrefixConstant)
		short = true
	default:
		return "", false, false
	}

	name, _, hasInlineValue := strings.Cut(trimmed, flagValueSeparatorConstant)
	if short && len(name) != shorthandLengthConstant {
		return "", false, false
	}
	return name, short, hasInlineValue
}

func lookupToggleLiteral(rawValue string) (bool, bool) {
	value, exists := toggleLiterals[strings.ToLower(strings.TrimSpace(rawValue))]
	return value, exists
}

type toggleFlagValue struct {
	currentValue bool
	target       *bool
}

func newToggleFlagValue(defaultValue bool, target *bool) *toggleFlagValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleFlagValue{currentValue: defaultValue, target: target}
}

func (value *toggleFlagValue) Set(rawValue string) error {
	if len(strings.TrimSpace(rawValue)) == 0 {
		rawValue = toggleTrueCanonicalValue
	}
	parsedValue, valid := lookupToggleLiteral(rawValue)
	if !valid {
		return fmt.Errorf(toggleParseErrorTemplate, rawValue)
	}

	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
	return nil
}

func (value *toggleFlagValue) String() string {
	if value != nil && value.currentValue {
		return toggleTrueCanonicalValue
	}
	return toggleFalseCanonicalValue
}

func (value *toggleFlagValue) Type() string {
	return toggleValueTypeConstant
}
