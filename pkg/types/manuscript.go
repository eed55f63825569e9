// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Author is a manuscript author.
type Author struct {
	Name        string `json:"name" yaml:"name"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
	Institution string `json:"institution,omitempty" yaml:"institution,omitempty"`
}

// RefereeRef is an author-supplied referee recommendation or opposition.
type RefereeRef struct {
	Name        string `json:"name" yaml:"name"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
	Institution string `json:"institution,omitempty" yaml:"institution,omitempty"`
	ORCID       string `json:"orcid,omitempty" yaml:"orcid,omitempty"`
}

// RefereeRecommendations groups the referees the authors asked for and
// against.
type RefereeRecommendations struct {
	Recommended []RefereeRef `json:"recommended_referees,omitempty" yaml:"recommended_referees,omitempty"`
	Opposed     []RefereeRef `json:"opposed_referees,omitempty" yaml:"opposed_referees,omitempty"`
}

// Manuscript is the read-only input to referee discovery, as extracted
// from a manuscript-management system.
type Manuscript struct {
	ID       string   `json:"id,omitempty" yaml:"id,omitempty"`
	Title    string   `json:"title" yaml:"title"`
	Abstract string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Authors  []Author `json:"authors,omitempty" yaml:"authors,omitempty"`
	Editors  []string `json:"editors,omitempty" yaml:"editors,omitempty"`

	RefereeRecommendations RefereeRecommendations `json:"referee_recommendations,omitempty" yaml:"referee_recommendations,omitempty"`

	// Older extraction files stored the recommendation lists at the top
	// level. Both locations are honored; Recommended/Opposed merge them.
	LegacyRecommended []RefereeRef `json:"recommended_referees,omitempty" yaml:"recommended_referees,omitempty"`
	LegacyOpposed     []RefereeRef `json:"opposed_referees,omitempty" yaml:"opposed_referees,omitempty"`
}

// Recommended returns the author-suggested referees from both metadata
// locations, nested list first.
func (m Manuscript) Recommended() []RefereeRef {
	return append(append([]RefereeRef{}, m.RefereeRecommendations.Recommended...), m.LegacyRecommended...)
}

// Opposed returns the author-opposed referees from both metadata locations.
func (m Manuscript) Opposed() []RefereeRef {
	return append(append([]RefereeRef{}, m.RefereeRecommendations.Opposed...), m.LegacyOpposed...)
}
