package insight

import (
	"sort"

	"legal-insight-be/pkg/analytics/outlier"
)

// BuildOutliers lists the flagged clauses, most anomalous first.
func BuildOutliers(clauses []Clause, assignments []int, report outlier.Report) OutliersData {
	entries := make([]OutlierEntry, 0)
	for i, c := range clauses {
		if !report.Flags[i] {
			continue
		}
		entries = append(entries, OutlierEntry{
			ClauseID:      c.ID,
			Title:         c.Title,
			ClauseType:    c.ClauseType,
			AgreementName: c.AgreementName,
			ClusterID:     assignments[i],
			Score:         report.Scores[i],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	return OutliersData{
		Outliers:    entries,
		Threshold:   report.Threshold,
		Mean:        report.Mean,
		StdDev:      report.StdDev,
		TotalScored: len(report.Scores),
	}
}
