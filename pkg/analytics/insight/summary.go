package insight

import (
	"math"
	"sort"
)

const (
	minClusters = 5
	maxClusters = 15
)

// ChooseK scales the cluster count with the square root of half the corpus, kept
// within [5, 15].
func ChooseK(clauseCount int) int {
	k := int(math.Round(math.Sqrt(float64(clauseCount) / 2)))
	if k < minClusters {
		return minClusters
	}
	if k > maxClusters {
		return maxClusters
	}
	return k
}

// tally counts occurrences while remembering when each value was first seen.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(value string) {
	if _, ok := t.counts[value]; !ok {
		t.order = append(t.order, value)
	}
	t.counts[value]++
}

type tallyEntry struct {
	Value string
	Count int
}

// ranked orders values by count descending; equal counts keep first-seen order.
func (t *tally) ranked() []tallyEntry {
	entries := make([]tallyEntry, len(t.order))
	for i, v := range t.order {
		entries[i] = tallyEntry{Value: v, Count: t.counts[v]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

func (t *tally) dominant() string {
	ranked := t.ranked()
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0].Value
}

type clusterAccumulator struct {
	size       int
	types      *tally
	risks      *tally
	agreements *tally
	titles     []string
}

// SummarizeClusters describes every non-empty cluster, ordered by cluster id.
func SummarizeClusters(clauses []Clause, assignments []int) []ClusterSummary {
	byCluster := make(map[int]*clusterAccumulator)
	for i, c := range clauses {
		id := assignments[i]
		acc, ok := byCluster[id]
		if !ok {
			acc = &clusterAccumulator{types: newTally(), risks: newTally(), agreements: newTally()}
			byCluster[id] = acc
		}
		acc.size++
		acc.types.add(c.ClauseType)
		acc.risks.add(c.RiskLevel)
		acc.agreements.add(c.AgreementName)
		if len(acc.titles) < maxSampleTitles {
			acc.titles = append(acc.titles, c.Title)
		}
	}

	ids := make([]int, 0, len(byCluster))
	for id := range byCluster {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	summaries := make([]ClusterSummary, 0, len(ids))
	for _, id := range ids {
		acc := byCluster[id]
		summaries = append(summaries, ClusterSummary{
			ClusterID:    id,
			Size:         acc.size,
			DominantType: acc.types.dominant(),
			DominantRisk: acc.risks.dominant(),
			Agreements:   acc.agreements.order,
			SampleTitles: acc.titles,
		})
	}
	return summaries
}
