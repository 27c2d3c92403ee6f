package improve

import (
	"testing"

	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerger_Summary(t *testing.T) {
	doc := sampleResume()
	m := newMerger(doc)

	applied, _ := m.apply(Improvement{Section: "summary", Current: "Developer.", Improved: "Seasoned developer."})
	assert.True(t, applied)
	assert.Equal(t, "Seasoned developer.", doc.PersonalInfo.Summary)
}

func TestMerger_NoOpSectionsLeaveDocumentIdentical(t *testing.T) {
	original := sampleResume()
	doc := original.Clone()
	m := newMerger(doc)

	noops := []Improvement{
		{Section: "summary", Current: "Developer.", Improved: "Developer."},
		{Section: "experience-1", Current: "Built APIs.", Improved: "Built APIs."},
		{Section: "education-1", Current: "", Improved: ""},
		{Section: "skills", Current: "Java", Improved: "Java"},
		{Section: "experience-2"},
	}
	for _, imp := range noops {
		applied, reason := m.apply(imp)
		assert.False(t, applied, imp.Section)
		assert.NotEmpty(t, reason)
	}

	assert.Equal(t, original, doc)
}

func TestMerger_SkillIDsStaySequentialAcrossMerges(t *testing.T) {
	doc := &types.Resume{Skills: []types.Skill{{ID: 1, Skill: "Java"}, {ID: 7, Skill: "Go"}}}

	batches := []string{"Python", "SQL, Rust", "Kafka", "Docker, Terraform, Helm", "Redis"}
	for _, batch := range batches {
		// a fresh merger per run, as the pipeline does
		m := newMerger(doc)
		applied, _ := m.apply(Improvement{Section: "skills", Improved: batch})
		require.True(t, applied)
	}

	seen := map[int]bool{}
	for _, s := range doc.Skills {
		assert.False(t, seen[s.ID], "duplicate id %d", s.ID)
		seen[s.ID] = true
	}
	for i, s := range doc.Skills[2:] {
		assert.Equal(t, 8+i, s.ID, s.Skill)
	}
	assert.Len(t, doc.Skills, 10)
}

func TestMerger_CaseInsensitiveDedup(t *testing.T) {
	doc := &types.Resume{Skills: []types.Skill{{ID: 1, Skill: "Python"}}}
	m := newMerger(doc)

	applied, _ := m.apply(Improvement{Section: "skills", Improved: "python, Go"})
	require.True(t, applied)

	assert.Equal(t, []types.Skill{{ID: 1, Skill: "Python"}, {ID: 2, Skill: "Go"}}, doc.Skills)
	assert.Equal(t, []string{"Go"}, m.added)
}

func TestMerger_SkillsDedupWithinBatchAndDropEmpties(t *testing.T) {
	doc := &types.Resume{}
	m := newMerger(doc)

	m.apply(Improvement{Section: "skills", Improved: " Go ,, go, GO,  Kubernetes , "})

	assert.Equal(t, []types.Skill{{ID: 1, Skill: "Go"}, {ID: 2, Skill: "Kubernetes"}}, doc.Skills)
}

func TestMerger_SkillsNothingNew(t *testing.T) {
	doc := &types.Resume{Skills: []types.Skill{{ID: 3, Skill: "Go"}}}
	m := newMerger(doc)

	applied, reason := m.apply(Improvement{Section: "skills", Improved: "GO, go"})
	assert.False(t, applied)
	assert.Equal(t, "no new skills", reason)
	assert.Len(t, doc.Skills, 1)
}

func TestMerger_UnknownExperienceID(t *testing.T) {
	doc := sampleResume()
	before := append([]types.Experience(nil), doc.Experience...)
	m := newMerger(doc)

	assert.NotPanics(t, func() {
		applied, reason := m.apply(Improvement{Section: "experience-999", Improved: "Led everything."})
		assert.False(t, applied)
		assert.Equal(t, "stale id", reason)
	})
	assert.Equal(t, before, doc.Experience)
}

func TestMerger_ExperienceAndEducation(t *testing.T) {
	doc := sampleResume()
	m := newMerger(doc)

	applied, _ := m.apply(Improvement{Section: "experience-1", Improved: "Designed Go services handling 5k rps."})
	assert.True(t, applied)
	applied, _ = m.apply(Improvement{Section: "education-1", Improved: "Thesis on Raft consensus."})
	assert.True(t, applied)
	applied, reason := m.apply(Improvement{Section: "education-4", Improved: "x"})
	assert.False(t, applied)
	assert.Equal(t, "stale id", reason)

	assert.Equal(t, "Designed Go services handling 5k rps.", doc.Experience[0].Description)
	assert.Equal(t, "Thesis on Raft consensus.", doc.Education[0].Description)
	assert.Equal(t, "", doc.Experience[1].Description)
}

func TestMerger_UnknownSection(t *testing.T) {
	doc := sampleResume()
	m := newMerger(doc)

	for _, s := range []types.SectionID{"awards-1", "Summary", "experience-x"} {
		applied, reason := m.apply(Improvement{Section: s, Improved: "text"})
		assert.False(t, applied)
		assert.Equal(t, "unknown section", reason)
	}
	assert.Equal(t, sampleResume(), doc)
}

func TestMerger_OrderIndependent(t *testing.T) {
	imps := []Improvement{
		{Section: "summary", Improved: "New summary."},
		{Section: "skills", Improved: "Python, SQL"},
		{Section: "experience-1", Improved: "New description."},
	}

	forward := sampleResume()
	m := newMerger(forward)
	for _, imp := range imps {
		m.apply(imp)
	}

	backward := sampleResume()
	m = newMerger(backward)
	for i := len(imps) - 1; i >= 0; i-- {
		m.apply(imps[i])
	}

	assert.Equal(t, forward, backward)
}
