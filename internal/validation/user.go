package validation

// RegisterInput is the raw registration form.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the raw login form.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateRegister checks a registration submission.
func ValidateRegister(in RegisterInput) Result {
	res := newResult()

	if !lengthBetween(in.Name, 2, 30) {
		res.Errors["name"] = "Name must be between 2 and 30 characters"
	}
	if in.Name == "" {
		res.Errors["name"] = "Name field is required"
	}
	if !isEmail(in.Email) {
		res.Errors["email"] = "Email is invalid"
	}
	if in.Email == "" {
		res.Errors["email"] = "Email field is required"
	}
	if !lengthBetween(in.Password, 6, 30) {
		res.Errors["password"] = "Password must be between 6 and 30 characters"
	}
	if in.Password == "" {
		res.Errors["password"] = "Password field is required"
	}

	return res
}

// ValidateLogin checks a login submission.
func ValidateLogin(in LoginInput) Result {
	res := newResult()

	if !isEmail(in.Email) {
		res.Errors["email"] = "Email is invalid"
	}
	if in.Email == "" {
		res.Errors["email"] = "Email field is required"
	}
	if in.Password == "" {
		res.Errors["password"] = "Password field is required"
	}

	return res
}
