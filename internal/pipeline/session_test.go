package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/mcncl/jsoncmp/internal/diff"
	"github.com/mcncl/jsoncmp/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func collectResults() (func(*Result), func() []*Result, chan struct{}) {
	var mu sync.Mutex
	var results []*Result
	delivered := make(chan struct{}, 16)
	onResult := func(r *Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
		delivered <- struct{}{}
	}
	snapshot := func() []*Result {
		mu.Lock()
		defer mu.Unlock()
		return append([]*Result(nil), results...)
	}
	return onResult, snapshot, delivered
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a result")
	}
}

func TestSession_CoalescesRapidUpdates(t *testing.T) {
	defer goleak.VerifyNone(t)

	onResult, snapshot, delivered := collectResults()
	session := NewSession(New(zaptest.NewLogger(t)), 50*time.Millisecond, onResult)
	defer session.Close()

	session.Update(`{"v": 1}`, `{"v": 1}`)
	session.Update(`{"v": 2}`, `{"v": 1}`)
	session.Update(`{"v": 3}`, `{"v": 3, "w": 0}`)

	waitFor(t, delivered)
	session.Close()

	results := snapshot()
	require.Len(t, results, 1)
	assert.Equal(t, []string{"w"}, results[0].Missing.MissingInLeft)
}

func TestSession_CloseCancelsPendingComparison(t *testing.T) {
	defer goleak.VerifyNone(t)

	onResult, snapshot, _ := collectResults()
	session := NewSession(New(nil), time.Hour, onResult)

	session.Update(`1`, `2`)
	session.Close()

	assert.Empty(t, snapshot())

	// Updates after Close are ignored
	session.Update(`1`, `2`)
	session.Close()
	assert.Empty(t, snapshot())
}

func TestSession_DropsSupersededResults(t *testing.T) {
	defer goleak.VerifyNone(t)

	release := make(chan struct{})
	started := make(chan struct{})
	p := New(zaptest.NewLogger(t))
	p.compare = func(left, right models.JSONValue) diff.Node {
		if obj, ok := left.(*models.JSONObject); ok && obj.Has("slow") {
			close(started)
			<-release
		}
		return diff.Compare(left, right)
	}

	onResult, snapshot, delivered := collectResults()
	session := NewSession(p, 0, onResult)

	session.Update(`{"slow": true}`, `{"slow": true}`)
	<-started

	session.Update(`{"fast": true}`, `{"fast": true, "extra": 1}`)
	waitFor(t, delivered)

	close(release)
	session.Close()

	results := snapshot()
	require.Len(t, results, 1)
	assert.Equal(t, []string{"extra"}, results[0].Missing.MissingInLeft)
}

func TestSession_SeparateUpdatesEachDeliver(t *testing.T) {
	defer goleak.VerifyNone(t)

	onResult, snapshot, delivered := collectResults()
	session := NewSession(New(nil), 5*time.Millisecond, onResult)

	session.Update(`{"a": 1}`, `{"a": 1}`)
	waitFor(t, delivered)
	session.Update(`{"a": 1}`, `{"a": 2}`)
	waitFor(t, delivered)
	session.Close()

	results := snapshot()
	require.Len(t, results, 2)
	assert.False(t, diff.HasDifferences(results[0].Diff))
	assert.True(t, diff.HasDifferences(results[1].Diff))
}
