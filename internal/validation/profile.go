package validation

// ProfileInput is the raw profile form. Skills arrives as a comma-separated
// string and the social fields as plain URLs.
type ProfileInput struct {
	Handle         string `json:"handle"`
	Status         string `json:"status"`
	Skills         string `json:"skills"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"githubusername"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Instagram      string `json:"instagram"`
	Linkedin       string `json:"linkedin"`
}

// ValidateProfile checks a profile submission. Handle length and URL format
// are authoritative; required checks fire only on blank fields.
func ValidateProfile(in ProfileInput) Result {
	res := newResult()

	if !lengthBetween(in.Handle, 2, 40) {
		res.Errors["handle"] = "User handle can be between 2 and 40 characters"
	}
	if in.Handle == "" {
		res.Errors["handle"] = "User handle is required"
	}
	if in.Status == "" {
		res.Errors["status"] = "Please specify your status"
	}
	if in.Skills == "" {
		res.Errors["skills"] = "Please enter your skills"
	}

	urlFields := map[string]string{
		"website":   in.Website,
		"youtube":   in.Youtube,
		"twitter":   in.Twitter,
		"facebook":  in.Facebook,
		"instagram": in.Instagram,
		"linkedin":  in.Linkedin,
	}
	for field, value := range urlFields {
		if value != "" && !isURL(value) {
			res.Errors[field] = "Please enter a valid URL"
		}
	}

	return res
}

// ExperienceInput is the raw experience-entry form.
type ExperienceInput struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// ValidateExperience checks an experience-entry submission.
func ValidateExperience(in ExperienceInput) Result {
	res := newResult()

	if in.Title == "" {
		res.Errors["title"] = "Please include your job title"
	}
	if in.Company == "" {
		res.Errors["company"] = "Please include the name of your company"
	}
	if in.From == "" {
		res.Errors["from"] = "Please include a starting date"
	}

	return res
}

// EducationInput is the raw education-entry form.
type EducationInput struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// ValidateEducation checks an education-entry submission.
func ValidateEducation(in EducationInput) Result {
	res := newResult()

	if in.School == "" {
		res.Errors["school"] = "Please include your school"
	}
	if in.Degree == "" {
		res.Errors["degree"] = "Please include your degree"
	}
	if in.FieldOfStudy == "" {
		res.Errors["fieldOfStudy"] = "Please include your field of study"
	}
	if in.From == "" {
		res.Errors["from"] = "Please include a starting date"
	}

	return res
}
