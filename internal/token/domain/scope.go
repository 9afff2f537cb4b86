package domain

import (
	"encoding/json"
	"slices"
)

// RestrictionScope narrows a token to a subset of its actor's authority. The three axes are
// independent and any matching axis grants the action. A nil or empty scope means no narrowing.
type RestrictionScope struct {
	All      []string                       `json:"a,omitempty"`
	Database map[string][]string            `json:"d,omitempty"`
	Resource map[string]map[string][]string `json:"r,omitempty"`
}

// IsEmpty reports whether the scope narrows nothing.
func (s *RestrictionScope) IsEmpty() bool {
	if s == nil {
		return true
	}
	if len(s.All) > 0 {
		return false
	}
	for _, actions := range s.Database {
		if len(actions) > 0 {
			return false
		}
	}
	for _, resources := range s.Resource {
		for _, actions := range resources {
			if len(actions) > 0 {
				return false
			}
		}
	}
	return true
}

// Allows reports whether the scope grants action on database/resource. Pass empty strings
// for axes that do not apply. Both full names and abbreviations are accepted.
func (s *RestrictionScope) Allows(action, database, resource string) bool {
	if s.IsEmpty() {
		return true
	}
	abbr := AbbreviateAction(action)
	if slices.Contains(s.All, abbr) {
		return true
	}
	if database == "" {
		return false
	}
	if slices.Contains(s.Database[database], abbr) {
		return true
	}
	if resource == "" {
		return false
	}
	return slices.Contains(s.Resource[database][resource], abbr)
}

// EncodeScope serializes a scope to its stored JSON form. Empty scopes encode as "null".
func EncodeScope(s *RestrictionScope) (string, error) {
	if s.IsEmpty() {
		return "null", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeScope parses a stored scope. "", "null" and "{}" all decode to nil.
func DecodeScope(data string) (*RestrictionScope, error) {
	if data == "" || data == "null" {
		return nil, nil
	}
	var s RestrictionScope
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, err
	}
	if s.IsEmpty() {
		return nil, nil
	}
	return &s, nil
}

// MergeScope folds tags into a scope. Actions are abbreviated and deduplicated per key with
// first-seen order kept. Actions listed in exclude, by full name or abbreviation, are dropped.
// Returns nil when no action survives.
func MergeScope(tags []ScopeTag, exclude ...string) *RestrictionScope {
	excluded := make(map[string]bool, len(exclude)*2)
	for _, e := range exclude {
		excluded[e] = true
		excluded[AbbreviateAction(e)] = true
	}

	s := &RestrictionScope{}
	for _, tag := range tags {
		if excluded[tag.Action] {
			continue
		}
		action := AbbreviateAction(tag.Action)
		if excluded[action] {
			continue
		}

		switch tag.Kind {
		case ScopeAll:
			s.All = appendUnique(s.All, action)
		case ScopeDatabase:
			if s.Database == nil {
				s.Database = map[string][]string{}
			}
			s.Database[tag.Database] = appendUnique(s.Database[tag.Database], action)
		case ScopeResource:
			if s.Resource == nil {
				s.Resource = map[string]map[string][]string{}
			}
			if s.Resource[tag.Database] == nil {
				s.Resource[tag.Database] = map[string][]string{}
			}
			resources := s.Resource[tag.Database]
			resources[tag.Resource] = appendUnique(resources[tag.Resource], action)
		}
	}

	if s.IsEmpty() {
		return nil
	}
	return s
}

func appendUnique(list []string, value string) []string {
	if slices.Contains(list, value) {
		return list
	}
	return append(list, value)
}
