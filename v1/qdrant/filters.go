package qdrant

import (
	qdrant "github.com/qdrant/go-client/qdrant"
)

// FilterCondition is implemented by every condition that can be turned into
// native Qdrant conditions.
type FilterCondition interface {
	ToQdrantCondition() []*qdrant.Condition
}

// MatchCondition matches a payload key against an exact value.
type MatchCondition[T string | int64 | bool] struct {
	Key   string
	Value T
}

func (c MatchCondition[T]) ToQdrantCondition() []*qdrant.Condition {
	switch v := any(c.Value).(type) {
	case string:
		return []*qdrant.Condition{qdrant.NewMatch(c.Key, v)}
	case bool:
		return []*qdrant.Condition{qdrant.NewMatchBool(c.Key, v)}
	case int64:
		return []*qdrant.Condition{qdrant.NewMatchInt(c.Key, v)}
	default:
		return nil
	}
}

// MatchAnyCondition matches when the payload value is one of Values.
type MatchAnyCondition[T string | int64] struct {
	Key    string
	Values []T
}

func (c MatchAnyCondition[T]) ToQdrantCondition() []*qdrant.Condition {
	if len(c.Values) == 0 {
		return nil
	}
	switch v := any(c.Values).(type) {
	case []string:
		return []*qdrant.Condition{qdrant.NewMatchKeywords(c.Key, v...)}
	case []int64:
		return []*qdrant.Condition{qdrant.NewMatchInts(c.Key, v...)}
	default:
		return nil
	}
}

type TextCondition = MatchCondition[string]
type BoolCondition = MatchCondition[bool]
type IntCondition = MatchCondition[int64]
type TextAnyCondition = MatchAnyCondition[string]

// ConditionSet groups conditions of one clause.
type ConditionSet struct {
	Conditions []FilterCondition
}

// FilterSet combines the three Qdrant clauses.
type FilterSet struct {
	Must    *ConditionSet // AND - all conditions must match
	Should  *ConditionSet // OR - at least one condition must match
	MustNot *ConditionSet // NOT - none of the conditions should match
}

// Must is shorthand for a FilterSet with only AND conditions.
func Must(conditions ...FilterCondition) *FilterSet {
	return &FilterSet{Must: &ConditionSet{Conditions: conditions}}
}

// buildFilter returns nil when no clause produced a condition.
func buildFilter(filters *FilterSet) *qdrant.Filter {
	if filters == nil {
		return nil
	}

	filter := &qdrant.Filter{
		Must:    buildConditions(filters.Must),
		Should:  buildConditions(filters.Should),
		MustNot: buildConditions(filters.MustNot),
	}

	if len(filter.Must) == 0 && len(filter.Should) == 0 && len(filter.MustNot) == 0 {
		return nil
	}

	return filter
}

func buildConditions(cs *ConditionSet) []*qdrant.Condition {
	if cs == nil {
		return nil
	}

	var conditions []*qdrant.Condition
	for _, c := range cs.Conditions {
		conditions = append(conditions, c.ToQdrantCondition()...)
	}
	return conditions
}
