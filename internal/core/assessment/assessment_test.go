package assessment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusInProgress, StatusCompleted} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("archived").Valid())
	assert.False(t, Status("").Valid())
}

func TestTaskPatch_Apply(t *testing.T) {
	task := Task{Name: "old", Organization: "Acme", Status: StatusDraft}
	name := "new"
	status := StatusInProgress

	TaskPatch{Name: &name, Status: &status}.Apply(&task)

	assert.Equal(t, Task{Name: "new", Organization: "Acme", Status: StatusInProgress}, task)
}

func TestStatsOf(t *testing.T) {
	tasks := []Task{
		{Status: StatusDraft},
		{Status: StatusInProgress},
		{Status: StatusCompleted},
		{Status: StatusCompleted},
	}

	assert.Equal(t, Stats{TotalTasks: 4, CompletedTasks: 2, InProgressTasks: 1}, StatsOf(tasks))
	assert.Equal(t, Stats{}, StatsOf(nil))
}

func TestRating_JSON(t *testing.T) {
	data, err := json.Marshal(Item{ID: "item_1"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rating":null`)

	data, err = json.Marshal(Item{ID: "item_1", Rating: RatingNotApplicable})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rating":"not_applicable"`)

	var it Item
	require.NoError(t, json.Unmarshal([]byte(`{"id":"item_2","rating":null}`), &it))
	assert.Equal(t, RatingUnset, it.Rating)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"item_2","rating":"partial"}`), &it))
	assert.Equal(t, RatingPartial, it.Rating)

	require.Error(t, json.Unmarshal([]byte(`{"rating":3}`), &it))
}

func TestParseRating(t *testing.T) {
	r, err := ParseRating("non_compliant")
	require.NoError(t, err)
	assert.Equal(t, RatingNonCompliant, r)

	_, err = ParseRating("")
	require.ErrorIs(t, err, ErrValidation)

	_, err = ParseRating("yes")
	require.ErrorIs(t, err, ErrValidation)
}

func TestItemPatch(t *testing.T) {
	bad := Rating("excellent")
	require.ErrorIs(t, ItemPatch{Rating: &bad}.Validate(), ErrValidation)
	require.NoError(t, ItemPatch{}.Validate())

	it := Item{ID: "item_1", Rating: RatingPartial, Evidence: "old", Remarks: "keep"}
	r := RatingCompliant
	evidence := "signed policy"
	patch := ItemPatch{Rating: &r, Evidence: &evidence}

	require.NoError(t, patch.Validate())
	patch.Apply(&it)
	assert.Equal(t, Item{ID: "item_1", Rating: RatingCompliant, Evidence: "signed policy", Remarks: "keep"}, it)
}

func TestItemPatch_OmitsUnsetFields(t *testing.T) {
	evidence := "x"
	data, err := json.Marshal(ItemPatch{Evidence: &evidence})
	require.NoError(t, err)
	assert.JSONEq(t, `{"evidence":"x"}`, string(data))
}

func TestDimensionScores_JSONKeepsOrder(t *testing.T) {
	scores := DimensionScores{
		{Dimension: "Zeta", Score: 10},
		{Dimension: "Alpha", Score: 75},
		{Dimension: "Mu \"quoted\"", Score: 0},
	}

	data, err := json.Marshal(scores)
	require.NoError(t, err)
	assert.Equal(t, `{"Zeta":10,"Alpha":75,"Mu \"quoted\"":0}`, string(data))

	var back DimensionScores
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, scores, back)
	assert.Equal(t, []string{"Zeta", "Alpha", "Mu \"quoted\""}, back.Keys())

	score, ok := back.Get("Alpha")
	assert.True(t, ok)
	assert.Equal(t, 75, score)
	_, ok = back.Get("Beta")
	assert.False(t, ok)
}

func TestDimensionScores_Empty(t *testing.T) {
	data, err := json.Marshal(Result{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dimension_scores":{}`)

	var d DimensionScores
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.Nil(t, d)

	require.Error(t, json.Unmarshal([]byte(`[1,2]`), &d))
	require.Error(t, json.Unmarshal([]byte(`{"a":"high"}`), &d))
}

func TestLevelDistribution(t *testing.T) {
	var l LevelDistribution
	for _, r := range []Rating{RatingCompliant, RatingCompliant, RatingPartial, RatingNotApplicable, RatingUnset, "bogus"} {
		l.Add(r)
	}

	assert.Equal(t, 2, l.Count(RatingCompliant))
	assert.Equal(t, 1, l.Count(RatingPartial))
	assert.Equal(t, 0, l.Count(RatingNonCompliant))
	assert.Equal(t, 1, l.Count(RatingNotApplicable))
	assert.Equal(t, 0, l.Count(RatingUnset))
	assert.Equal(t, 4, l.Total())

	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `{"compliant":2,"partial":1,"non_compliant":0,"not_applicable":1}`, string(data))
}
