package insight

import (
	"fmt"
	"math"
)

const (
	InsightMostSimilarPair  = "most_similar_pair"
	InsightMostUnique       = "most_unique_agreement"
	InsightCommonTypes      = "common_clause_types"
	InsightHighRisk         = "high_risk_clauses"
	InsightProviderFavoring = "provider_favorable_clauses"
	InsightTopOutlier       = "top_outlier"
	InsightLargestCluster   = "largest_cluster"
)

// Share above which the risk and favorability findings are raised to high importance.
const (
	highRiskAlertPercent          = 25.0
	providerFavorableAlertPercent = 50.0
)

// Input bundles the already computed artifacts of a run.
type Input struct {
	Clauses    []Clause
	Agreements []Agreement
	Similarity [][]float64
	Clusters   []ClusterSummary
	Outliers   OutliersData
	Risk       RiskAnalysisData
}

// Derive produces the short findings shown on the analytics dashboard. Findings that
// need data the corpus does not have (e.g. a pair of agreements) are omitted.
func Derive(in Input) []Insight {
	insights := make([]Insight, 0, 7)

	if i, j, sim, ok := MostSimilarPair(in.Similarity); ok {
		a, b := in.Agreements[i], in.Agreements[j]
		insights = append(insights, Insight{
			Type:        InsightMostSimilarPair,
			Title:       "Most similar agreements",
			Description: fmt.Sprintf("%s and %s are %.1f%% similar", a.Name, b.Name, sim*100),
			Importance:  ImportanceHigh,
			Data: map[string]interface{}{
				"agreement_a": a.Name,
				"agreement_b": b.Name,
				"ids":         []string{a.ID, b.ID},
				"similarity":  sim,
			},
		})
	}

	if idx, avg, ok := MostUnique(in.Similarity); ok {
		a := in.Agreements[idx]
		insights = append(insights, Insight{
			Type:        InsightMostUnique,
			Title:       "Most unique agreement",
			Description: fmt.Sprintf("%s has the lowest average similarity to the other agreements (%.1f%%)", a.Name, avg*100),
			Importance:  ImportanceMedium,
			Data: map[string]interface{}{
				"agreement":          a.Name,
				"agreement_id":       a.ID,
				"provider":           a.Provider,
				"average_similarity": avg,
			},
		})
	}

	types := newTally()
	for _, c := range in.Clauses {
		types.add(c.ClauseType)
	}
	if ranked := types.ranked(); len(ranked) > 0 {
		if len(ranked) > maxTopTypes {
			ranked = ranked[:maxTopTypes]
		}
		top := make([]map[string]interface{}, len(ranked))
		for i, e := range ranked {
			top[i] = map[string]interface{}{"clause_type": e.Value, "count": e.Count}
		}
		insights = append(insights, Insight{
			Type:        InsightCommonTypes,
			Title:       "Most common clause types",
			Description: fmt.Sprintf("%s is the most frequent clause type (%d clauses)", ranked[0].Value, ranked[0].Count),
			Importance:  ImportanceMedium,
			Data:        map[string]interface{}{"top_types": top},
		})
	}

	total := in.Risk.Overall.Total
	if total > 0 {
		highPct := percent(in.Risk.Overall.High, total)
		importance := ImportanceMedium
		if highPct >= highRiskAlertPercent {
			importance = ImportanceHigh
		}
		insights = append(insights, Insight{
			Type:        InsightHighRisk,
			Title:       "High-risk clauses",
			Description: fmt.Sprintf("%d of %d clauses (%.1f%%) are rated high risk", in.Risk.Overall.High, total, highPct),
			Importance:  importance,
			Data:        map[string]interface{}{"count": in.Risk.Overall.High, "total": total, "percentage": highPct},
		})

		provPct := percent(in.Risk.Overall.ProviderFavorable, total)
		importance = ImportanceMedium
		if provPct >= providerFavorableAlertPercent {
			importance = ImportanceHigh
		}
		insights = append(insights, Insight{
			Type:        InsightProviderFavoring,
			Title:       "Provider-favorable clauses",
			Description: fmt.Sprintf("%d of %d clauses (%.1f%%) favor the provider", in.Risk.Overall.ProviderFavorable, total, provPct),
			Importance:  importance,
			Data:        map[string]interface{}{"count": in.Risk.Overall.ProviderFavorable, "total": total, "percentage": provPct},
		})
	}

	if len(in.Outliers.Outliers) > 0 {
		top := in.Outliers.Outliers[0]
		insights = append(insights, Insight{
			Type:        InsightTopOutlier,
			Title:       "Most anomalous clause",
			Description: fmt.Sprintf("%q in %s deviates most from its cluster (score %.3f)", top.Title, top.AgreementName, top.Score),
			Importance:  ImportanceMedium,
			Data: map[string]interface{}{
				"clause_id":      top.ClauseID,
				"title":          top.Title,
				"clause_type":    top.ClauseType,
				"agreement_name": top.AgreementName,
				"score":          top.Score,
				"outlier_count":  len(in.Outliers.Outliers),
			},
		})
	}

	if largest, ok := largestCluster(in.Clusters); ok {
		insights = append(insights, Insight{
			Type:        InsightLargestCluster,
			Title:       "Largest clause cluster",
			Description: fmt.Sprintf("The largest cluster holds %d clauses, mostly %s", largest.Size, largest.DominantType),
			Importance:  ImportanceLow,
			Data: map[string]interface{}{
				"cluster_id":    largest.ClusterID,
				"size":          largest.Size,
				"dominant_type": largest.DominantType,
			},
		})
	}

	return insights
}

// largestCluster picks the biggest cluster; ties go to the lower cluster id.
func largestCluster(clusters []ClusterSummary) (ClusterSummary, bool) {
	if len(clusters) == 0 {
		return ClusterSummary{}, false
	}
	best := clusters[0]
	for _, c := range clusters[1:] {
		if c.Size > best.Size {
			best = c
		}
	}
	return best, true
}

// percent returns part/total as a percentage rounded to one decimal.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
