package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for the data model:
// - ParseKind and ParseDirection accept exactly the declared vocabulary
// - ListenerNames falls back to on<Name> when no listeners are declared
// - ChannelCount sums channels across files

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds {
		got, ok := ParseKind(string(k))
		assert.True(t, ok, k)
		assert.Equal(t, k, got)
	}

	for _, s := range []string{"", "broadcast", "Multicast", "Port "} {
		_, ok := ParseKind(s)
		assert.False(t, ok, s)
	}
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	for _, d := range Directions {
		got, ok := ParseDirection(string(d))
		assert.True(t, ok, d)
		assert.Equal(t, d, got)
	}

	for _, s := range []string{"", "MainToMain", "renderertomain"} {
		_, ok := ParseDirection(s)
		assert.False(t, ok, s)
	}
}

func TestChannelSpec_ListenerNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"onRefresh"}, ChannelSpec{Name: "Refresh"}.ListenerNames())
	assert.Equal(t, []string{"onRefresh"}, ChannelSpec{Name: "Refresh", Listeners: []string{}}.ListenerNames())
	assert.Equal(t, []string{"onA", "onB"}, ChannelSpec{Name: "Refresh", Listeners: []string{"onA", "onB"}}.ListenerNames())
}

func TestCorpus_ChannelCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Corpus(nil).ChannelCount())

	corpus := Corpus{
		{RelativePath: "a.ts", Specs: SpecsCollection{ChannelSpecs: []ChannelSpec{{Name: "One"}, {Name: "Two"}}}},
		{RelativePath: "types.ts"},
		{RelativePath: "b.ts", Specs: SpecsCollection{ChannelSpecs: []ChannelSpec{{Name: "Three"}}}},
	}
	assert.Equal(t, 3, corpus.ChannelCount())
}
