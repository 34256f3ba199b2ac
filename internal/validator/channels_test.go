package validator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/ipcgen/internal/spec"
)

// Test Plan for channel validation:
// - Only the allow-listed (kind, direction) pairs validate; others name both values
// - Names shorter than 3, lowercase, or starting with "on" are rejected
// - A missing signature is rejected
// - Broadcast and Port channels must return void or Promise<void>
// - Listener overrides are rejected on non-Broadcast channels
// - Listener names: 4 characters rejected, onAbc accepted, pattern enforced
// - Duplicate channel names across files are rejected
// - Synthesized and overridden listener callables must be unique corpus-wide
// - Triggers are only valid on MainToRenderer channels and must be kebab-case
// - Every violation is reported, each reachable through errors.As

func voidSig() *spec.Signature {
	return &spec.Signature{Params: []spec.Param{}, ReturnType: "void"}
}

func channel(name string, kind spec.Kind, dir spec.Direction) spec.ChannelSpec {
	return spec.ChannelSpec{Name: name, Kind: kind, Direction: dir, Signature: voidSig()}
}

func corpusOf(channels ...spec.ChannelSpec) spec.Corpus {
	return spec.Corpus{{
		FullPath:     "/project/src/autoipc/schema.ts",
		RelativePath: "schema.ts",
		Specs:        spec.SpecsCollection{ChannelSpecs: channels},
	}}
}

func fieldErrors(t *testing.T, err error) []*FieldError {
	t.Helper()
	var errs Errors
	require.True(t, errors.As(err, &errs), "expected validator.Errors, got %T", err)

	result := make([]*FieldError, 0, len(errs))
	for _, e := range errs {
		var fe *FieldError
		require.True(t, errors.As(e, &fe))
		result = append(result, fe)
	}
	return result
}

func TestValidateChannel_KindDirectionMatrix(t *testing.T) {
	t.Parallel()

	allowed := map[string]bool{
		"Broadcast/RendererToMain":     true,
		"Broadcast/MainToRenderer":     true,
		"Unicast/RendererToMain":       true,
		"Port/RendererToRenderer":      true,
		"Broadcast/RendererToRenderer": false,
		"Unicast/MainToRenderer":       false,
		"Unicast/RendererToRenderer":   false,
		"Port/RendererToMain":          false,
		"Port/MainToRenderer":          false,
	}

	for _, kind := range spec.Kinds {
		for _, dir := range spec.Directions {
			key := fmt.Sprintf("%s/%s", kind, dir)
			t.Run(key, func(t *testing.T) {
				errs := ValidateChannel(channel("Sample", kind, dir))
				if allowed[key] {
					assert.Empty(t, errs)
					return
				}
				require.Len(t, errs, 1)
				assert.ErrorIs(t, errs[0], ErrIncompatibleKind)
				assert.Contains(t, errs[0].Error(), string(kind))
				assert.Contains(t, errs[0].Error(), string(dir))
			})
		}
	}
}

func TestValidateChannel_UnknownVocabulary(t *testing.T) {
	t.Parallel()

	errs := ValidateChannel(channel("Sample", spec.Kind("Multicast"), spec.Direction("Sideways")))
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], ErrInvalidKind)
	assert.ErrorIs(t, errs[1], ErrInvalidDirection)
}

func TestValidateChannel_Names(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		valid bool
	}{
		{"Abc", true},
		{"UserChannel", true},
		{"User_Channel2", true},
		{"Ab", false},
		{"", false},
		{"userChannel", false},
		{"OnUser", false},
		{"onUser", false},
		{"ONLINE", false},
		{"User-Channel", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateChannel(channel(tt.name, spec.KindUnicast, spec.RendererToMain))
			if tt.valid {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			assert.ErrorIs(t, errs[0], ErrInvalidName)
		})
	}
}

func TestValidateChannel_MissingSignature(t *testing.T) {
	t.Parallel()

	ch := channel("Loose", spec.KindUnicast, spec.RendererToMain)
	ch.Signature = nil

	errs := ValidateChannel(ch)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMissingSignature)
}

func TestValidateChannel_ReturnTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind       spec.Kind
		direction  spec.Direction
		returnType string
		valid      bool
	}{
		{spec.KindBroadcast, spec.RendererToMain, "void", true},
		{spec.KindBroadcast, spec.RendererToMain, "Promise<void>", true},
		{spec.KindBroadcast, spec.RendererToMain, "Promise< void >", true},
		{spec.KindBroadcast, spec.MainToRenderer, "boolean", false},
		{spec.KindPort, spec.RendererToRenderer, "string", false},
		{spec.KindPort, spec.RendererToRenderer, "void", true},
		{spec.KindUnicast, spec.RendererToMain, "Promise<boolean>", true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.kind, tt.returnType), func(t *testing.T) {
			ch := channel("Sample", tt.kind, tt.direction)
			ch.Signature.ReturnType = tt.returnType

			errs := ValidateChannel(ch)
			if tt.valid {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.ErrorIs(t, errs[0], ErrInvalidReturnType)
		})
	}
}

func TestValidateChannel_Listeners(t *testing.T) {
	t.Parallel()

	t.Run("four characters rejected", func(t *testing.T) {
		ch := channel("Sample", spec.KindBroadcast, spec.RendererToMain)
		ch.Listeners = []string{"onAb"}

		errs := ValidateChannel(ch)
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], ErrInvalidListener)
	})

	t.Run("onAbc accepted", func(t *testing.T) {
		ch := channel("Sample", spec.KindBroadcast, spec.RendererToMain)
		ch.Listeners = []string{"onAbc"}

		assert.Empty(t, ValidateChannel(ch))
	})

	t.Run("pattern enforced", func(t *testing.T) {
		for _, listener := range []string{"onabcd", "handleSample", "onSample-x", "ONSample"} {
			ch := channel("Sample", spec.KindBroadcast, spec.MainToRenderer)
			ch.Listeners = []string{listener}

			errs := ValidateChannel(ch)
			require.Len(t, errs, 1, listener)
			assert.ErrorIs(t, errs[0], ErrInvalidListener, listener)
		}
	})

	t.Run("only on Broadcast", func(t *testing.T) {
		ch := channel("Sample", spec.KindUnicast, spec.RendererToMain)
		ch.Listeners = []string{"onSampleOne"}

		errs := ValidateChannel(ch)
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], ErrListenersNotAllowed)
	})

	t.Run("empty list on Unicast still rejected", func(t *testing.T) {
		ch := channel("Sample", spec.KindUnicast, spec.RendererToMain)
		ch.Listeners = []string{}

		errs := ValidateChannel(ch)
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], ErrListenersNotAllowed)
	})
}

func TestValidateChannel_Trigger(t *testing.T) {
	t.Parallel()

	ch := channel("Welcome", spec.KindBroadcast, spec.MainToRenderer)
	ch.Trigger = "ready-to-show"
	assert.Empty(t, ValidateChannel(ch))

	ch.Trigger = "readyToShow"
	errs := ValidateChannel(ch)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrInvalidTrigger)

	ch = channel("Welcome", spec.KindBroadcast, spec.RendererToMain)
	ch.Trigger = "ready-to-show"
	errs = ValidateChannel(ch)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrInvalidTrigger)
}

func TestValidateChannels_DuplicateNamesAcrossFiles(t *testing.T) {
	t.Parallel()

	corpus := spec.Corpus{
		{RelativePath: "a.ts", Specs: spec.SpecsCollection{ChannelSpecs: []spec.ChannelSpec{
			channel("Shared", spec.KindUnicast, spec.RendererToMain),
		}}},
		{RelativePath: "nested/b.ts", Specs: spec.SpecsCollection{ChannelSpecs: []spec.ChannelSpec{
			channel("Shared", spec.KindPort, spec.RendererToRenderer),
		}}},
	}

	err := ValidateChannels(corpus)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateName)

	errs := fieldErrors(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "nested/b.ts", errs[0].File)
	assert.Contains(t, errs[0].Error(), "a.ts")
}

func TestValidateChannels_ListenerUniqueness(t *testing.T) {
	t.Parallel()

	t.Run("override collides with synthesized name", func(t *testing.T) {
		broadcast := channel("Alpha", spec.KindBroadcast, spec.RendererToMain)
		broadcast.Listeners = []string{"onBeta"}

		err := ValidateChannels(corpusOf(broadcast, channel("Beta", spec.KindUnicast, spec.RendererToMain)))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateListener)
	})

	t.Run("repeated override within one channel", func(t *testing.T) {
		broadcast := channel("Alpha", spec.KindBroadcast, spec.MainToRenderer)
		broadcast.Listeners = []string{"onAlphaOne", "onAlphaOne"}

		err := ValidateChannels(corpusOf(broadcast))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateListener)
	})

	t.Run("overrides replace the default name", func(t *testing.T) {
		broadcast := channel("Alpha", spec.KindBroadcast, spec.MainToRenderer)
		broadcast.Listeners = []string{"onAlphaOne", "onAlphaTwo"}
		other := channel("Gamma", spec.KindBroadcast, spec.RendererToMain)
		other.Listeners = []string{"onAlpha"}

		assert.NoError(t, ValidateChannels(corpusOf(broadcast, other)))
	})

	t.Run("port channels generate no listener", func(t *testing.T) {
		port := channel("Pipe", spec.KindPort, spec.RendererToRenderer)
		broadcast := channel("Alpha", spec.KindBroadcast, spec.RendererToMain)
		broadcast.Listeners = []string{"onPipe"}

		assert.NoError(t, ValidateChannels(corpusOf(port, broadcast)))
	})
}

func TestValidateChannels_ReportsEveryViolation(t *testing.T) {
	t.Parallel()

	bad := channel("ab", spec.KindPort, spec.RendererToMain)
	bad.Signature = nil

	err := ValidateChannels(corpusOf(bad, channel("Good", spec.KindUnicast, spec.RendererToMain)))
	require.Error(t, err)

	errs := fieldErrors(t, err)
	require.Len(t, errs, 3)
	for _, fe := range errs {
		assert.Equal(t, "schema.ts", fe.File)
		assert.Equal(t, "ab", fe.Channel)
	}
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, err, ErrIncompatibleKind)
	assert.ErrorIs(t, err, ErrMissingSignature)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateChannels_EmptyCorpus(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateChannels(nil))
}
