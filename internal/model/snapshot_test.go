package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestNewSnapshot_JoinAndSentinels(t *testing.T) {
	subs := []SubmissionRecord{
		{StudentID: "s1", TitleID: "q1", State: "Absolutely_Correct", Score: f(3), TimeConsume: f(120), Memory: f(256)},
		{StudentID: "s1", TitleID: "q_unknown", State: "Absolutely_Error", Score: f(0)},
		{StudentID: "s2", TitleID: "q1", State: "Partially_Correct", Score: f(1.5), Memory: f(-1)},
	}
	items := []Item{
		{TitleID: "q1", Score: 3, Knowledge: "循环", SubKnowledge: ""},
	}

	snap := NewSnapshot("1", subs, items, nil)
	require.Len(t, snap.Rows, 3)

	// 已知题目：满分与知识点就位，空从属知识点归入未分类
	assert.True(t, snap.Rows[0].KnownItem)
	assert.Equal(t, 3.0, snap.Rows[0].MaxScore)
	assert.Equal(t, "循环", snap.Rows[0].Knowledge)
	assert.Equal(t, UncategorizedKnowledge, snap.Rows[0].SubKnowledge)

	// 未知题目不丢行，归入 未知/未知
	assert.False(t, snap.Rows[1].KnownItem)
	assert.Equal(t, UnknownKnowledge, snap.Rows[1].Knowledge)
	assert.Equal(t, UnknownKnowledge, snap.Rows[1].SubKnowledge)

	// memory<=0 按缺失处理
	_, ok := snap.Rows[2].MemoryValue()
	assert.False(t, ok)
	_, ok = snap.Rows[2].TimeValue()
	assert.False(t, ok)
	v, ok := snap.Rows[0].MemoryValue()
	assert.True(t, ok)
	assert.Equal(t, 256.0, v)
}

func TestNewSnapshot_MasteryComputedWhenMissing(t *testing.T) {
	subs := []SubmissionRecord{
		{StudentID: "s1", TitleID: "q1", State: "Partially_Correct", Score: f(1.5)},
		{StudentID: "s1", TitleID: "q1", State: "Absolutely_Correct", Score: f(3), Mastery: f(1.0)},
	}
	items := []Item{{TitleID: "q1", Score: 3, Knowledge: "循环", SubKnowledge: "for"}}

	snap := NewSnapshot("1", subs, items, nil)
	assert.InDelta(t, 0.5, snap.Rows[0].Mastery, 1e-9)
	assert.InDelta(t, 1.0, snap.Rows[1].Mastery, 1e-9)
}

// 预计算列里合法的 0.0 原样保留，不会被分段计算法重算覆盖。
func TestNewSnapshot_PrecomputedZeroMasteryKept(t *testing.T) {
	subs := []SubmissionRecord{
		{StudentID: "s1", TitleID: "q1", State: "Absolutely_Correct", Score: f(3), Mastery: f(0)},
	}
	items := []Item{{TitleID: "q1", Score: 3, Knowledge: "循环", SubKnowledge: "for"}}

	snap := NewSnapshot("1", subs, items, nil)
	assert.InDelta(t, 0.0, snap.Rows[0].Mastery, 1e-9)
}

func TestNewSnapshot_DuplicateItemTakesMaxScore(t *testing.T) {
	items := []Item{
		{TitleID: "q1", Score: 3, Knowledge: "循环", SubKnowledge: "for"},
		{TitleID: "q1", Score: 5, Knowledge: "循环", SubKnowledge: "for"},
	}
	subs := []SubmissionRecord{
		{StudentID: "s1", TitleID: "q1", State: "Partially_Correct", Score: f(2.5)},
	}

	snap := NewSnapshot("1", subs, items, nil)
	assert.Equal(t, 5.0, snap.Rows[0].MaxScore)
	assert.InDelta(t, 0.5, snap.Rows[0].Mastery, 1e-9)
}

func TestSnapshot_KnowledgeStructure(t *testing.T) {
	items := []Item{
		{TitleID: "q1", Knowledge: "循环", SubKnowledge: "for"},
		{TitleID: "q2", Knowledge: "循环", SubKnowledge: "while"},
		{TitleID: "q3", Knowledge: "循环", SubKnowledge: "for"},
		{TitleID: "q4", Knowledge: "数组", SubKnowledge: ""},
	}

	snap := NewSnapshot("1", nil, items, nil)
	structure := snap.KnowledgeStructure()

	assert.Equal(t, []string{"for", "while"}, structure["循环"])
	assert.Equal(t, []string{UncategorizedKnowledge}, structure["数组"])
}

func TestParseDimension(t *testing.T) {
	d, ok := ParseDimension("")
	assert.True(t, ok)
	assert.Equal(t, DimensionKnowledge, d)

	d, ok = ParseDimension("title_ID")
	assert.True(t, ok)
	assert.Equal(t, DimensionItem, d)

	_, ok = ParseDimension("bogus")
	assert.False(t, ok)
}

func TestParseGranularity(t *testing.T) {
	g, ok := ParseGranularity("")
	assert.True(t, ok)
	assert.Equal(t, GranularityDay, g)

	for _, s := range []string{"day", "week", "month", "submission"} {
		_, ok := ParseGranularity(s)
		assert.True(t, ok, s)
	}

	_, ok = ParseGranularity("year")
	assert.False(t, ok)
}
