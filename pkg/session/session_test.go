package session

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcraft/pkg/ident"
	"github.com/goliatone/go-formcraft/pkg/model"
)

func newSession(options ...Option) *Session {
	reducer := model.NewReducer(model.WithIDGenerator(ident.NewSequence("id")))
	return New(append([]Option{WithReducer(reducer)}, options...)...)
}

func addText(r *model.Reducer, state model.State) model.State {
	return r.AddField(state, model.PaletteField(model.FieldTypeText))
}

func TestApplyCommitsAndSnapshotsAreCopies(t *testing.T) {
	s := newSession()
	if s.Snapshot().Schema.ID != "id-1" {
		t.Fatalf("expected fresh state from the reducer")
	}

	got := s.Apply("add", addText)
	if len(got.Schema.Fields) != 1 || s.Seq() != 1 {
		t.Fatalf("unexpected state after apply: %+v seq=%d", got, s.Seq())
	}

	snap := s.Snapshot()
	snap.Schema.Fields[0].Label = "mutated"
	if s.Snapshot().Schema.Fields[0].Label == "mutated" {
		t.Fatalf("snapshot aliases live state")
	}
	got.Schema.Title = "mutated"
	if s.Snapshot().Schema.Title == "mutated" {
		t.Fatalf("apply result aliases live state")
	}
}

func TestWithStateSeeds(t *testing.T) {
	seed := model.State{Schema: model.Schema{ID: "seed", Title: "Seeded", Fields: []model.Field{}}}
	s := newSession(WithState(seed))
	if diff := cmp.Diff(seed, s.Snapshot()); diff != "" {
		t.Fatalf("seed mismatch (-want +got):\n%s", diff)
	}
}

func TestSubscribersReceiveEventsInOrder(t *testing.T) {
	s := newSession()
	events, cancel := s.Subscribe()
	defer cancel()

	s.Apply("add", addText)
	s.Apply("toggle", func(r *model.Reducer, state model.State) model.State {
		return r.ToggleMultiStep(state)
	})

	first := <-events
	second := <-events
	if first.Seq != 1 || first.Action != "add" || second.Seq != 2 || second.Action != "toggle" {
		t.Fatalf("unexpected events %+v %+v", first, second)
	}
	if !second.State.Schema.IsMultiStep {
		t.Fatalf("event must carry the committed state")
	}
}

func TestSlowSubscriberDropsOldest(t *testing.T) {
	s := newSession(WithBuffer(2))
	events, cancel := s.Subscribe()
	defer cancel()

	for i := 0; i < 5; i++ {
		s.Apply("add", addText)
	}

	var seqs []uint64
	for len(events) > 0 {
		seqs = append(seqs, (<-events).Seq)
	}
	if diff := cmp.Diff([]uint64{4, 5}, seqs); diff != "" {
		t.Fatalf("expected latest snapshots (-want +got):\n%s", diff)
	}
}

func TestCancelAndClose(t *testing.T) {
	s := newSession()
	events, cancel := s.Subscribe()
	cancel()
	cancel()
	if _, ok := <-events; ok {
		t.Fatalf("expected closed channel after cancel")
	}

	other, _ := s.Subscribe()
	s.Close()
	if _, ok := <-other; ok {
		t.Fatalf("expected closed channel after Close")
	}
	if s.Subscribers() != 0 {
		t.Fatalf("expected no subscribers")
	}
	late, _ := s.Subscribe()
	if _, ok := <-late; ok {
		t.Fatalf("expected closed channel after Close")
	}
	s.Apply("add", addText)
}

func TestConcurrentApply(t *testing.T) {
	s := newSession()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Apply("add", addText)
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	state := s.Snapshot()
	if len(state.Schema.Fields) != 50 || s.Seq() != 50 {
		t.Fatalf("expected 50 fields, got %d (seq %d)", len(state.Schema.Fields), s.Seq())
	}
	seen := map[string]bool{}
	for _, f := range state.Schema.Fields {
		if seen[f.ID] {
			t.Fatalf("duplicate id %s", f.ID)
		}
		seen[f.ID] = true
	}
}
