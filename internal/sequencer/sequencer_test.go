package sequencer_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kso512/timestamper/internal/sequencer"
)

const seed = int64(1700000000) // 2023-11-14T22:13:20Z

func collect(s sequencer.Sequence) []sequencer.Label {
	var out []sequencer.Label
	for _, l := range s.All() {
		out = append(out, l)
	}
	return out
}

func TestGenerate_SingleLabel(t *testing.T) {
	labels := collect(sequencer.Generate(seed, 1))
	require.Len(t, labels, 1)

	assert.Equal(t, seed, labels[0].Second)
	assert.Equal(t, "2023-11-14", labels[0].Date)
	assert.Equal(t, "T22:13:20Z", labels[0].Time)
	assert.Equal(t, "2023-11-14T22:13:20Z", labels[0].Stamp())
	assert.Equal(t, "2023-11-14\nT22:13:20Z", labels[0].Text())
}

func TestGenerate_ContiguousSeconds(t *testing.T) {
	labels := collect(sequencer.Generate(seed, 3))
	require.Len(t, labels, 3)

	for i, l := range labels {
		assert.Equal(t, seed+int64(i), l.Second)
	}
	assert.Equal(t, "T22:13:22Z", labels[2].Time)
}

func TestGenerate_Length(t *testing.T) {
	for _, n := range []int{1, 2, 7, 60, 1000} {
		s := sequencer.Generate(seed, n)
		assert.Equal(t, n, s.Len())
		assert.Len(t, collect(s), n)
	}
}

func TestGenerate_NegativeCountIsEmpty(t *testing.T) {
	assert.Equal(t, 0, sequencer.Generate(seed, -3).Len())
	assert.Empty(t, collect(sequencer.Generate(seed, -3)))
}

func TestGenerate_Restartable(t *testing.T) {
	s := sequencer.Generate(seed, 5)
	first := collect(s)
	second := collect(s)
	assert.Equal(t, first, second)
	assert.Equal(t, first, collect(sequencer.Generate(seed, 5)))
}

func TestGenerate_EarlyStop(t *testing.T) {
	var seen int
	for i := range sequencer.Generate(seed, 10).All() {
		seen++
		if i == 2 {
			break
		}
	}
	assert.Equal(t, 3, seen)
}

func TestGenerate_CrossesMidnight(t *testing.T) {
	labels := collect(sequencer.Generate(1700006399, 2))
	require.Len(t, labels, 2)

	assert.Equal(t, "2023-11-14", labels[0].Date)
	assert.Equal(t, "T23:59:59Z", labels[0].Time)
	assert.Equal(t, "2023-11-15", labels[1].Date)
	assert.Equal(t, "T00:00:00Z", labels[1].Time)
}

func TestGenerate_Epoch(t *testing.T) {
	l := sequencer.NewLabel(0)
	assert.Equal(t, "1970-01-01", l.Date)
	assert.Equal(t, "T00:00:00Z", l.Time)
}

func TestSequence_AtOutOfRangePanics(t *testing.T) {
	s := sequencer.Generate(seed, 2)
	assert.Panics(t, func() { s.At(2) })
	assert.Panics(t, func() { s.At(-1) })
}

func TestGenerate_Golden(t *testing.T) {
	var buf bytes.Buffer
	for _, l := range sequencer.Generate(seed, 3).All() {
		fmt.Fprintf(&buf, "%d %s %s\n", l.Second, l.Date, l.Time)
	}
	g := goldie.New(t)
	g.Assert(t, "three_labels", buf.Bytes())
}
