package jobs

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summitreg/internal/badge"
	"summitreg/internal/models"
)

// fakeSource mirrors the table-backed source: a record keeps coming back in
// batches until MarkPrinted, and batches honor the afterID cursor.
type fakeSource struct {
	mu      sync.Mutex
	items   map[uint]BadgeItem
	printed map[uint]bool
	err     error
}

func newFakeSource(items ...BadgeItem) *fakeSource {
	src := &fakeSource{
		items:   make(map[uint]BadgeItem, len(items)),
		printed: make(map[uint]bool),
	}
	for _, it := range items {
		src.items[it.Person.ID] = it
	}
	return src
}

func (f *fakeSource) NextBatch(_ context.Context, afterID uint, limit int) ([]BadgeItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	var ids []uint
	for id := range f.items {
		if id > afterID && !f.printed[id] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}

	batch := make([]BadgeItem, 0, len(ids))
	for _, id := range ids {
		batch = append(batch, f.items[id])
	}
	return batch, nil
}

func (f *fakeSource) MarkPrinted(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.printed[id] = true
	return nil
}

func (f *fakeSource) printedIDs() []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint
	for id := range f.printed {
		ids = append(ids, id)
	}
	return ids
}

type fakeRenderer struct {
	mu      sync.Mutex
	failIDs map[uint]bool
	failAll bool
	renders int
}

func (f *fakeRenderer) Render(p badge.PersonRecord) ([]byte, error) {
	f.mu.Lock()
	f.renders++
	f.mu.Unlock()
	if f.failAll || f.failIDs[p.ID] {
		return nil, errors.New("render blew up")
	}
	return []byte("%PDF-1.4 fake"), nil
}

type memSink struct {
	states []string
	last   Stats
}

func (m *memSink) Update(_ context.Context, _ string, state string, st Stats) {
	m.states = append(m.states, state)
	m.last = st
}

func items(ids ...uint) []BadgeItem {
	out := make([]BadgeItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, BadgeItem{
			Person:   badge.PersonRecord{ID: id, FullName: "Person X", Category: "Delegate"},
			Category: "Delegate",
		})
	}
	return out
}

func newTestProcessor(t *testing.T, src BadgeSource, r BadgeRenderer) *Processor {
	t.Helper()
	p := NewProcessor(r, src, t.TempDir(), slog.New(slog.NewTextHandler(os.Stderr, nil)))
	p.ChunkSize = 2
	return p
}

func TestRunProcessesAllPending(t *testing.T) {
	src := newFakeSource(items(1, 2, 3, 4, 5)...)
	p := newTestProcessor(t, src, &fakeRenderer{})

	stats, err := p.Run(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Processed)
	assert.Equal(t, 5, stats.Succeeded)
	assert.Equal(t, 0, stats.Failed)
	assert.ElementsMatch(t, []uint{1, 2, 3, 4, 5}, src.printedIDs())

	entries, err := os.ReadDir(filepath.Join(p.OutDir, "delegate"))
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestRunContinuesPastRenderFailures(t *testing.T) {
	src := newFakeSource(items(1, 2, 3)...)
	p := newTestProcessor(t, src, &fakeRenderer{failIDs: map[uint]bool{2: true}})

	stats, err := p.Run(context.Background(), "job-2")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 2, stats.Succeeded)
	assert.Equal(t, 1, stats.Failed)
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, uint(2), stats.Errors[0].RegistrantID)

	// The failed record must not be marked printed.
	assert.NotContains(t, src.printedIDs(), uint(2))
}

func TestRunTerminatesWhenEveryRenderFails(t *testing.T) {
	// Failing records stay unprinted, so without the cursor the source would
	// hand back the same batch forever. The run must visit each record once
	// and finish.
	src := newFakeSource(items(1, 2, 3, 4, 5)...)
	renderer := &fakeRenderer{failAll: true}
	p := newTestProcessor(t, src, renderer)

	stats, err := p.Run(context.Background(), "job-stuck")
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Processed)
	assert.Equal(t, 0, stats.Succeeded)
	assert.Equal(t, 5, stats.Failed)
	assert.Equal(t, 5, renderer.renders)
	assert.Empty(t, src.printedIDs())
}

func TestRunStopsOnSourceError(t *testing.T) {
	src := newFakeSource()
	src.err = errors.New("db down")
	p := newTestProcessor(t, src, &fakeRenderer{})

	_, err := p.Run(context.Background(), "job-3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch batch")
}

func TestRunHonorsCancellation(t *testing.T) {
	src := newFakeSource(items(1, 2, 3)...)
	p := newTestProcessor(t, src, &fakeRenderer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Run(ctx, "job-4")
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunPublishesProgressStates(t *testing.T) {
	src := newFakeSource(items(1, 2, 3)...)
	p := newTestProcessor(t, src, &fakeRenderer{})
	sink := &memSink{}
	p.Progress = sink

	_, err := p.Run(context.Background(), "job-5")
	require.NoError(t, err)
	require.NotEmpty(t, sink.states)
	assert.Equal(t, "running", sink.states[0])
	assert.Equal(t, "done", sink.states[len(sink.states)-1])
	assert.Equal(t, 3, sink.last.Succeeded)
}

func TestItemFromRegistrant(t *testing.T) {
	cats := map[uint]models.Category{
		7: {ID: 7, Name: "VIP Guest", Color: "#d62612"},
	}
	reg := models.Registrant{
		ID:               12,
		Title:            "Dr",
		FirstName:        "Amina",
		SecondName:       "Uwase",
		JobTitle:         "Director",
		CategoryID:       7,
		NationalIDNumber: "12345678",
		OrganizationType: "Government Agency",
	}

	item := itemFromRegistrant(reg, cats)
	assert.Equal(t, uint(12), item.Person.ID)
	assert.Equal(t, "Dr Amina Uwase", item.Person.FullName)
	assert.Equal(t, "VIP Guest", item.Person.Category)
	assert.Equal(t, "VIP Guest", item.Category)
	assert.Equal(t, "#d62612", item.Person.AccentHex)
	assert.Nil(t, item.Person.Photo)

	// Unknown category renders with empty label and default accent.
	item = itemFromRegistrant(reg, map[uint]models.Category{})
	assert.Empty(t, item.Person.Category)
	assert.Empty(t, item.Person.AccentHex)
}

func TestCategoryFolder(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Delegate", "delegate"},
		{"VIP Guest", "vip_guest"},
		{"Press/Media", "press_media"},
		{"", "uncategorized"},
		{"  ", "uncategorized"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, categoryFolder(tc.in), tc.in)
	}
}
