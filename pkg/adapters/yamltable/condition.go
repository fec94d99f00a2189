package yamltable

import (
	"fmt"
	"strings"

	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// conditionDoc is the mapping form of a "when" field.
type conditionDoc struct {
	Events  []string `mapstructure:"events"`
	Statics []string `mapstructure:"statics"`
}

// decodeCondition accepts the three spellings of a condition:
//
//	when: always               # also "*", or the field left out
//	when: [coin, $armed]       # a list; "$" marks a static signal
//	when: {events: [coin], statics: [armed]}
func decodeCondition(raw any) (domain.Condition, error) {
	switch v := raw.(type) {
	case nil:
		return domain.Always(), nil
	case string:
		switch strings.TrimSpace(v) {
		case "always", "*":
			return domain.Always(), nil
		}
		return fromTags([]string{v})
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return domain.Condition{}, fmt.Errorf("condition tag must be a string, got %T", item)
			}
			tags = append(tags, s)
		}
		return fromTags(tags)
	case map[string]any, map[any]any:
		var doc conditionDoc
		if err := mapstructure.Decode(v, &doc); err != nil {
			return domain.Condition{}, fmt.Errorf("failed to decode condition: %w", err)
		}
		if len(doc.Events) == 0 && len(doc.Statics) == 0 {
			return domain.Condition{}, fmt.Errorf("condition mapping names no signal")
		}
		return build(doc.Events, doc.Statics), nil
	default:
		return domain.Condition{}, fmt.Errorf("invalid condition type: %T", raw)
	}
}

func fromTags(tags []string) (domain.Condition, error) {
	var events, statics []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		switch {
		case t == "":
			return domain.Condition{}, fmt.Errorf("empty condition tag")
		case strings.HasPrefix(t, "$"):
			statics = append(statics, strings.TrimPrefix(t, "$"))
		default:
			events = append(events, t)
		}
	}
	if len(events) == 0 && len(statics) == 0 {
		return domain.Condition{}, fmt.Errorf("condition names no signal")
	}
	return build(events, statics), nil
}

func build(events, statics []string) domain.Condition {
	evs := make([]domain.EventTag, len(events))
	for i, e := range events {
		evs[i] = domain.EventTag(e)
	}
	sts := make([]domain.StaticTag, len(statics))
	for i, s := range statics {
		sts[i] = domain.StaticTag(s)
	}
	return domain.When(evs...).AndStatic(sts...)
}
