package auth

// Mode selects which half of the login/signup view is shown.
type Mode string

const (
	ModeLogin  Mode = "login"
	ModeSignup Mode = "signup"
)

// Field keys. They double as the HTML name attributes of the inputs.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldFirstName       = "firstName"
	FieldMiddleName      = "middleName"
	FieldLastName        = "lastName"
	FieldPhone           = "phone"
)

// FieldNames lists every form key in render order.
var FieldNames = []string{
	FieldFirstName,
	FieldMiddleName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldPassword,
	FieldConfirmPassword,
}

// CredentialForm is the transient record backing the login/signup view.
// It only lives as long as the view that owns it.
type CredentialForm struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
	FirstName       string `json:"firstName" form:"firstName"`
	MiddleName      string `json:"middleName" form:"middleName"`
	LastName        string `json:"lastName" form:"lastName"`
	Phone           string `json:"phone" form:"phone"`
}

// NewCredentialForm returns the state a freshly mounted view starts with.
func NewCredentialForm(demoEmail string) CredentialForm {
	return CredentialForm{Email: demoEmail}
}

// Get returns the value stored under key, or "" for unknown keys.
func (f CredentialForm) Get(key string) string {
	switch key {
	case FieldEmail:
		return f.Email
	case FieldPassword:
		return f.Password
	case FieldConfirmPassword:
		return f.ConfirmPassword
	case FieldFirstName:
		return f.FirstName
	case FieldMiddleName:
		return f.MiddleName
	case FieldLastName:
		return f.LastName
	case FieldPhone:
		return f.Phone
	}
	return ""
}

// With returns a copy of f with key set to value. Unknown keys leave f unchanged.
func (f CredentialForm) With(key, value string) CredentialForm {
	switch key {
	case FieldEmail:
		f.Email = value
	case FieldPassword:
		f.Password = value
	case FieldConfirmPassword:
		f.ConfirmPassword = value
	case FieldFirstName:
		f.FirstName = value
	case FieldMiddleName:
		f.MiddleName = value
	case FieldLastName:
		f.LastName = value
	case FieldPhone:
		f.Phone = value
	}
	return f
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	FirstName       string `json:"firstName"`
	MiddleName      string `json:"middleName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Form converts the request into a form record.
func (r LoginRequest) Form() CredentialForm {
	return CredentialForm{Email: r.Email, Password: r.Password}
}

// Form converts the request into a form record.
func (r SignupRequest) Form() CredentialForm {
	return CredentialForm{
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		FirstName:       r.FirstName,
		MiddleName:      r.MiddleName,
		LastName:        r.LastName,
		Phone:           r.Phone,
	}
}
