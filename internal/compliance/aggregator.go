package compliance

import (
	"math"
	"sort"
)

// Summary holds per-severity counts for one category or for a whole set.
type Summary struct {
	Total    int `json:"total"`
	Overdue  int `json:"overdue"`
	Urgent   int `json:"urgent"`
	Upcoming int `json:"upcoming"`
	OK       int `json:"ok"`
	NoRecord int `json:"no_record"`
}

func (s *Summary) add(severity Severity) {
	s.Total++
	switch severity {
	case SeverityOverdue:
		s.Overdue++
	case SeverityUrgent:
		s.Urgent++
	case SeverityUpcoming:
		s.Upcoming++
	case SeverityOK:
		s.OK++
	case SeverityNoRecord:
		s.NoRecord++
	}
}

// Aggregate is the pure reduction of a classified obligation set: a
// severity-ordered sequence for tabular display, per-category counts, and
// the headline compliance rate.
type Aggregate struct {
	Ordered        []Obligation       `json:"ordered"`
	ByCategory     map[string]Summary `json:"by_category"`
	Totals         Summary            `json:"totals"`
	ComplianceRate float64            `json:"compliance_rate"`
}

// AlertCount is the number of obligations that belong in an alert report.
func (a Aggregate) AlertCount() int {
	return a.Totals.Overdue + a.Totals.Urgent + a.Totals.Upcoming
}

// NewAggregate reduces a classified obligation set. Input is not mutated;
// calling twice on the same input yields identical output.
func NewAggregate(obligations []Obligation) Aggregate {
	agg := Aggregate{
		Ordered:    make([]Obligation, len(obligations)),
		ByCategory: make(map[string]Summary),
	}
	copy(agg.Ordered, obligations)

	sort.SliceStable(agg.Ordered, func(i, j int) bool {
		a, b := agg.Ordered[i], agg.Ordered[j]
		if a.Severity.rank() != b.Severity.rank() {
			return a.Severity.rank() < b.Severity.rank()
		}
		if a.Due != nil && b.Due != nil && a.Due.Remaining != b.Due.Remaining {
			return a.Due.Remaining < b.Due.Remaining
		}
		return a.SubjectLabel < b.SubjectLabel
	})

	for _, o := range obligations {
		agg.Totals.add(o.Severity)
		summary := agg.ByCategory[o.Category]
		summary.add(o.Severity)
		agg.ByCategory[o.Category] = summary
	}

	dated := agg.Totals.Total - agg.Totals.NoRecord
	agg.ComplianceRate = ComplianceRate(dated, agg.Totals.Overdue)
	return agg
}

// ComplianceRate is the headline KPI: the share of dated obligations that are
// not overdue, as a percentage rounded to one decimal. Urgent and upcoming
// obligations still count as compliant; an empty set is fully compliant.
func ComplianceRate(total, overdue int) float64 {
	if total == 0 {
		return 100
	}
	return math.Round(float64(total-overdue)/float64(total)*1000) / 10
}
