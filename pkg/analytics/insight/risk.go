package insight

func (r *RiskCounts) add(c Clause) {
	r.Total++
	switch c.RiskLevel {
	case RiskLow:
		r.Low++
	case RiskMedium:
		r.Medium++
	case RiskHigh:
		r.High++
	}
	switch c.Favorability {
	case FavorabilityProvider:
		r.ProviderFavorable++
	case FavorabilityNeutral:
		r.Neutral++
	case FavorabilityCustomer:
		r.CustomerFavorable++
	}
}

// BuildRiskAnalysis breaks clause risk and favorability down by agreement and by
// clause type. Agreements keep their input order; clause types appear in first-seen
// order.
func BuildRiskAnalysis(clauses []Clause, agreements []Agreement) RiskAnalysisData {
	byAgreement := make([]AgreementRisk, len(agreements))
	agreementIndex := make(map[string]int, len(agreements))
	for i, a := range agreements {
		byAgreement[i] = AgreementRisk{AgreementID: a.ID, AgreementName: a.Name, Provider: a.Provider}
		agreementIndex[a.ID] = i
	}

	var byType []ClauseTypeRisk
	typeIndex := make(map[string]int)

	data := RiskAnalysisData{}
	for _, c := range clauses {
		data.Overall.add(c)

		if i, ok := agreementIndex[c.AgreementID]; ok {
			byAgreement[i].add(c)
		}

		i, ok := typeIndex[c.ClauseType]
		if !ok {
			i = len(byType)
			typeIndex[c.ClauseType] = i
			byType = append(byType, ClauseTypeRisk{ClauseType: c.ClauseType})
		}
		byType[i].add(c)
	}

	data.ByAgreement = byAgreement
	data.ByClauseType = byType
	if data.ByClauseType == nil {
		data.ByClauseType = []ClauseTypeRisk{}
	}
	return data
}
