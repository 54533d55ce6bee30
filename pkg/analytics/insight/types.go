// Package insight turns the raw numbers of an analysis run (cluster assignments,
// outlier scores, agreement similarity) into the summaries stored as analysis results.
package insight

const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"

	FavorabilityProvider = "provider-favorable"
	FavorabilityNeutral  = "neutral"
	FavorabilityCustomer = "customer-favorable"
)

const (
	ImportanceHigh   = "high"
	ImportanceMedium = "medium"
	ImportanceLow    = "low"
)

const (
	maxSampleTitles = 5
	maxTopTypes     = 5
)

// Clause is the slice of a clause record the summaries need.
type Clause struct {
	ID            string
	AgreementID   string
	AgreementName string
	ClauseType    string
	Title         string
	RiskLevel     string
	Favorability  string
}

// Agreement is the slice of an agreement record the summaries need.
type Agreement struct {
	ID       string
	Name     string
	Provider string
}

type ClusterSummary struct {
	ClusterID    int      `json:"cluster_id"`
	Size         int      `json:"size"`
	DominantType string   `json:"dominant_type"`
	DominantRisk string   `json:"dominant_risk"`
	Agreements   []string `json:"agreements"`
	SampleTitles []string `json:"sample_titles"`
}

type ClustersData struct {
	K        int              `json:"k"`
	Clusters []ClusterSummary `json:"clusters"`
}

type SimilarityMatrixData struct {
	Matrix       [][]float64 `json:"matrix"`
	Labels       []string    `json:"labels"`
	AgreementIDs []string    `json:"agreement_ids"`
	Providers    []string    `json:"providers"`
}

type OutlierEntry struct {
	ClauseID      string  `json:"clause_id"`
	Title         string  `json:"title"`
	ClauseType    string  `json:"clause_type"`
	AgreementName string  `json:"agreement_name"`
	ClusterID     int     `json:"cluster_id"`
	Score         float64 `json:"score"`
}

type OutliersData struct {
	Outliers    []OutlierEntry `json:"outliers"`
	Threshold   float64        `json:"threshold"`
	Mean        float64        `json:"mean"`
	StdDev      float64        `json:"std_dev"`
	TotalScored int            `json:"total_scored"`
}

type Insight struct {
	Type        string                 `json:"type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Importance  string                 `json:"importance"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

type InsightsData struct {
	Insights []Insight `json:"insights"`
}

// RiskCounts tallies clauses by risk level and favorability.
type RiskCounts struct {
	Total             int `json:"total"`
	Low               int `json:"low"`
	Medium            int `json:"medium"`
	High              int `json:"high"`
	ProviderFavorable int `json:"provider_favorable"`
	Neutral           int `json:"neutral"`
	CustomerFavorable int `json:"customer_favorable"`
}

type AgreementRisk struct {
	AgreementID   string `json:"agreement_id"`
	AgreementName string `json:"agreement_name"`
	Provider      string `json:"provider"`
	RiskCounts
}

type ClauseTypeRisk struct {
	ClauseType string `json:"clause_type"`
	RiskCounts
}

type RiskAnalysisData struct {
	ByAgreement  []AgreementRisk  `json:"by_agreement"`
	ByClauseType []ClauseTypeRisk `json:"by_clause_type"`
	Overall      RiskCounts       `json:"overall"`
}
