package validation

// PostInput is the raw post or comment form.
type PostInput struct {
	Text string `json:"text"`
}

// ValidatePost checks a post or comment submission. A blank text reports the
// blank message; the length message covers everything else outside 10-300.
func ValidatePost(in PostInput) Result {
	res := newResult()

	if !lengthBetween(in.Text, 10, 300) {
		res.Errors["text"] = "Post must be between 10 and 300 characters"
	}
	if in.Text == "" {
		res.Errors["text"] = "Please add a comment before submitting"
	}

	return res
}
