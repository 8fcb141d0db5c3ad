package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the one-to-one extension of a User. Both the handle and the user
// reference are globally unique. Experience and education entries are kept
// most-recent-first and carry their own stable IDs.
type Profile struct {
	ID             uuid.UUID    `json:"id"`
	User           uuid.UUID    `json:"user"`
	Handle         string       `json:"handle"`
	Status         string       `json:"status"`
	Skills         []string     `json:"skills"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	GithubUsername string       `json:"githubusername,omitempty"`
	Social         SocialLinks  `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// SocialLinks holds the optional profile URLs.
type SocialLinks struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
}

// Experience is an embedded work-history entry.
type Experience struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location,omitempty"`
	From        string    `json:"from"`
	To          string    `json:"to,omitempty"`
	Current     bool      `json:"current"`
	Description string    `json:"description,omitempty"`
}

// Education is an embedded education-history entry.
type Education struct {
	ID           uuid.UUID `json:"id"`
	School       string    `json:"school"`
	Degree       string    `json:"degree"`
	FieldOfStudy string    `json:"fieldOfStudy"`
	From         string    `json:"from"`
	To           string    `json:"to,omitempty"`
	Current      bool      `json:"current"`
	Description  string    `json:"description,omitempty"`
}

// ProfileUpdate carries only the fields a submission actually set. Blank
// fields are treated as omitted and never overwrite stored values; Skills is
// nil when omitted and SkillsSet distinguishes an explicit empty list.
type ProfileUpdate struct {
	Handle         string
	Status         string
	Skills         []string
	SkillsSet      bool
	Company        string
	Website        string
	Location       string
	Bio            string
	GithubUsername string
	Social         SocialLinks
}

// Apply merges the submitted fields into an existing profile in place.
func (u ProfileUpdate) Apply(p *Profile) {
	if u.Handle != "" {
		p.Handle = u.Handle
	}
	if u.Status != "" {
		p.Status = u.Status
	}
	if u.SkillsSet {
		p.Skills = u.Skills
	}
	if u.Company != "" {
		p.Company = u.Company
	}
	if u.Website != "" {
		p.Website = u.Website
	}
	if u.Location != "" {
		p.Location = u.Location
	}
	if u.Bio != "" {
		p.Bio = u.Bio
	}
	if u.GithubUsername != "" {
		p.GithubUsername = u.GithubUsername
	}
	if u.Social.Youtube != "" {
		p.Social.Youtube = u.Social.Youtube
	}
	if u.Social.Twitter != "" {
		p.Social.Twitter = u.Social.Twitter
	}
	if u.Social.Facebook != "" {
		p.Social.Facebook = u.Social.Facebook
	}
	if u.Social.Instagram != "" {
		p.Social.Instagram = u.Social.Instagram
	}
	if u.Social.Linkedin != "" {
		p.Social.Linkedin = u.Social.Linkedin
	}
}

// NewProfile builds a fresh profile for a user from a first submission.
func NewProfile(userID uuid.UUID, u ProfileUpdate) *Profile {
	p := &Profile{
		ID:         uuid.New(),
		User:       userID,
		Skills:     []string{},
		Experience: []Experience{},
		Education:  []Education{},
		CreatedAt:  time.Now(),
	}
	u.Apply(p)
	return p
}

// AddExperience prepends an entry, keeping most-recent-first order.
func (p *Profile) AddExperience(exp Experience) {
	p.Experience = append([]Experience{exp}, p.Experience...)
}

// RemoveExperience deletes the entry with the given ID. It reports whether
// the entry was present.
func (p *Profile) RemoveExperience(id uuid.UUID) bool {
	for i, exp := range p.Experience {
		if exp.ID == id {
			p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
			return true
		}
	}
	return false
}

// AddEducation prepends an entry, keeping most-recent-first order.
func (p *Profile) AddEducation(edu Education) {
	p.Education = append([]Education{edu}, p.Education...)
}

// RemoveEducation deletes the entry with the given ID. It reports whether
// the entry was present.
func (p *Profile) RemoveEducation(id uuid.UUID) bool {
	for i, edu := range p.Education {
		if edu.ID == id {
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			return true
		}
	}
	return false
}
