// Package validator enforces the naming and compatibility rules on extracted
// channel declarations before any artifact is generated.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mvp-joe/ipcgen/internal/spec"
)

const (
	minNameLength     = 3
	minListenerLength = 5
	listenerPrefix    = "on"
)

var (
	identifierPattern = regexp.MustCompile(`^\w+$`)
	listenerPattern   = regexp.MustCompile(`^on[A-Z]\w+$`)
	triggerPattern    = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)
)

// compatible is the allow-list of (kind, direction) pairs.
var compatible = map[spec.Kind]map[spec.Direction]bool{
	spec.KindBroadcast: {spec.RendererToMain: true, spec.MainToRenderer: true},
	spec.KindUnicast:   {spec.RendererToMain: true},
	spec.KindPort:      {spec.RendererToRenderer: true},
}

// Compatible reports whether a channel of kind may flow in direction.
func Compatible(kind spec.Kind, direction spec.Direction) bool {
	return compatible[kind][direction]
}

// ValidateChannels checks every channel of the corpus, then the corpus-wide
// uniqueness of channel names and listener callables. It returns nil or an
// Errors value holding every violation found.
func ValidateChannels(corpus spec.Corpus) error {
	var errs []error

	for _, pfs := range corpus {
		for _, ch := range pfs.Specs.ChannelSpecs {
			errs = append(errs, withFile(pfs.RelativePath, ValidateChannel(ch))...)
		}
	}

	errs = append(errs, validateUniqueness(corpus)...)
	return joinErrors(errs)
}

// ValidateChannel checks a single channel record in isolation.
func ValidateChannel(ch spec.ChannelSpec) []error {
	var errs []error
	fail := func(field, value, rule string, sentinel error) {
		errs = append(errs, &FieldError{
			Channel: ch.Name,
			Field:   field,
			Value:   value,
			Rule:    rule,
			Err:     sentinel,
		})
	}

	validateName(ch.Name, fail)

	_, kindOK := spec.ParseKind(string(ch.Kind))
	if !kindOK {
		fail("kind", string(ch.Kind), "must be one of Broadcast, Unicast, Port", ErrInvalidKind)
	}
	_, dirOK := spec.ParseDirection(string(ch.Direction))
	if !dirOK {
		fail("direction", string(ch.Direction), "must be one of RendererToMain, MainToRenderer, RendererToRenderer", ErrInvalidDirection)
	}
	if kindOK && dirOK && !Compatible(ch.Kind, ch.Direction) {
		fail("kind", string(ch.Kind), fmt.Sprintf("cannot be used with direction %s", ch.Direction), ErrIncompatibleKind)
	}

	if ch.Signature == nil {
		fail("signature", "", "is required and must be written as `type as (...) => R`", ErrMissingSignature)
	} else if ch.Kind == spec.KindBroadcast || ch.Kind == spec.KindPort {
		if !isVoidReturn(ch.Signature.ReturnType) {
			fail("signature", ch.Signature.ReturnType, fmt.Sprintf("must return void or Promise<void> for %s channels", ch.Kind), ErrInvalidReturnType)
		}
	}

	if ch.Listeners != nil {
		if ch.Kind != spec.KindBroadcast {
			fail("listeners", strings.Join(ch.Listeners, ", "), "are only allowed on Broadcast channels", ErrListenersNotAllowed)
		} else {
			for _, listener := range ch.Listeners {
				validateListener(listener, fail)
			}
		}
	}

	if ch.Trigger != "" {
		if ch.Direction != spec.MainToRenderer {
			fail("trigger", ch.Trigger, "is only allowed on MainToRenderer channels", ErrInvalidTrigger)
		} else if !triggerPattern.MatchString(ch.Trigger) {
			fail("trigger", ch.Trigger, "must be a kebab-case event name", ErrInvalidTrigger)
		}
	}

	return errs
}

func validateName(name string, fail func(field, value, rule string, sentinel error)) {
	if utf8.RuneCountInString(name) < minNameLength {
		fail("name", name, fmt.Sprintf("must be at least %d characters", minNameLength), ErrInvalidName)
		return
	}
	if strings.HasPrefix(strings.ToLower(name), listenerPrefix) {
		fail("name", name, fmt.Sprintf("must not start with %q", listenerPrefix), ErrInvalidName)
	}
	if first, _ := utf8.DecodeRuneInString(name); !unicode.IsUpper(first) {
		fail("name", name, "must start with an uppercase letter", ErrInvalidName)
	}
	if !identifierPattern.MatchString(name) {
		fail("name", name, "must contain only letters, digits and underscores", ErrInvalidName)
	}
}

func validateListener(listener string, fail func(field, value, rule string, sentinel error)) {
	if len(listener) < minListenerLength {
		fail("listeners", listener, fmt.Sprintf("must be at least %d characters", minListenerLength), ErrInvalidListener)
		return
	}
	if !listenerPattern.MatchString(listener) {
		fail("listeners", listener, "must match on<Uppercase><word characters>", ErrInvalidListener)
	}
}

func isVoidReturn(returnType string) bool {
	compact := strings.Join(strings.Fields(returnType), "")
	return compact == "void" || compact == "Promise<void>"
}

// listenerCallables returns the subscription callables a channel generates.
// Uniqueness is checked on these emitted names only: overrides on a
// Broadcast channel replace its default on<Name> rather than adding to it,
// and Port channels register no listener, so neither can collide in the
// generated objects.
func listenerCallables(ch spec.ChannelSpec) []string {
	switch ch.Kind {
	case spec.KindPort:
		return nil
	case spec.KindBroadcast:
		return ch.ListenerNames()
	default:
		return []string{listenerPrefix + ch.Name}
	}
}

func validateUniqueness(corpus spec.Corpus) []error {
	var errs []error
	names := make(map[string]string)
	listeners := make(map[string]string)

	for _, pfs := range corpus {
		for _, ch := range pfs.Specs.ChannelSpecs {
			if ch.Name != "" {
				if first, ok := names[ch.Name]; ok {
					errs = append(errs, &FieldError{
						File:    pfs.RelativePath,
						Channel: ch.Name,
						Field:   "name",
						Value:   ch.Name,
						Rule:    fmt.Sprintf("is already declared in %s", first),
						Err:     ErrDuplicateName,
					})
				} else {
					names[ch.Name] = pfs.RelativePath
				}
			}

			for _, listener := range listenerCallables(ch) {
				if owner, ok := listeners[listener]; ok {
					errs = append(errs, &FieldError{
						File:    pfs.RelativePath,
						Channel: ch.Name,
						Field:   "listeners",
						Value:   listener,
						Rule:    fmt.Sprintf("is already generated for channel %s", owner),
						Err:     ErrDuplicateListener,
					})
					continue
				}
				listeners[listener] = ch.Name
			}
		}
	}

	return errs
}

func withFile(file string, errs []error) []error {
	for _, err := range errs {
		if fe, ok := err.(*FieldError); ok && fe.File == "" {
			fe.File = file
		}
	}
	return errs
}
