package booking

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/Adriel2503/agente-reserva/models"
	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneNoise   = regexp.MustCompile(`[\s\-\(\)]`)
	countryCode  = regexp.MustCompile(`^\+?51`)
	mobilePhone  = regexp.MustCompile(`^9\d{8}$`)
	namePattern  = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s\-']+$`)
	hasDigit     = regexp.MustCompile(`\d`)
)

// RegisterValidations adds the "personname" and "contact" tags to v.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		_, err := NormalizeName(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("contact", func(fl validator.FieldLevel) bool {
		_, err := NormalizeContact(fl.Field().String())
		return err == nil
	})
}

// NewValidator returns a validator with the booking tags registered.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

// NormalizeContact accepts an e-mail address or a Peruvian mobile number and returns
// the e-mail lowercased or the bare nine digits.
func NormalizeContact(contact string) (string, error) {
	c := strings.TrimSpace(contact)
	if emailPattern.MatchString(c) {
		return strings.ToLower(c), nil
	}
	phone := countryCode.ReplaceAllString(phoneNoise.ReplaceAllString(c, ""), "")
	if mobilePhone.MatchString(phone) {
		return phone, nil
	}
	return "", fmt.Errorf("contact must be a valid e-mail or a Peruvian mobile number (9XXXXXXXX), got %q", c)
}

// NormalizeName checks a customer's name and returns it title-cased.
func NormalizeName(name string) (string, error) {
	n := strings.TrimSpace(name)
	switch {
	case len([]rune(n)) < 2:
		return "", errors.New("the name must have at least 2 characters")
	case len([]rune(n)) > 100:
		return "", errors.New("the name must have at most 100 characters")
	case hasDigit.MatchString(n):
		return "", errors.New("the name must not contain numbers")
	case !namePattern.MatchString(n):
		return "", errors.New("the name contains invalid characters")
	}
	return titleCase(n), nil
}

// titleCase upper-cases the first letter of every word and lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		if unicode.IsLetter(r) {
			if startOfWord {
				b.WriteRune(unicode.ToUpper(r))
			} else {
				b.WriteRune(unicode.ToLower(r))
			}
			startOfWord = false
			continue
		}
		b.WriteRune(r)
		startOfWord = true
	}
	return b.String()
}

// ValidateRequest checks a booking request and returns a normalized copy. The error
// text is meant for the customer.
func ValidateRequest(v *validator.Validate, req models.BookingRequest) (models.BookingRequest, error) {
	req.Service = strings.TrimSpace(req.Service)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	req.Branch = strings.TrimSpace(req.Branch)

	if err := v.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return req, errors.New(describeFieldError(fieldErrs[0], req))
		}
		return req, err
	}

	name, err := NormalizeName(req.CustomerName)
	if err != nil {
		return req, err
	}
	contact, err := NormalizeContact(req.CustomerContact)
	if err != nil {
		return req, err
	}
	req.CustomerName = name
	req.CustomerContact = contact
	return req, nil
}

func describeFieldError(fe validator.FieldError, req models.BookingRequest) string {
	switch fe.Field() {
	case "Service":
		return "the service must have at least 2 characters"
	case "Date":
		return "the date is required (YYYY-MM-DD)"
	case "Time":
		return "the time is required (HH:MM AM/PM)"
	case "DurationHours":
		return "the duration must be between 0 and 24 hours"
	case "CustomerName":
		if _, err := NormalizeName(req.CustomerName); err != nil {
			return err.Error()
		}
		return "the customer name is required"
	case "CustomerContact":
		if _, err := NormalizeContact(req.CustomerContact); err != nil {
			return err.Error()
		}
		return "the customer contact is required"
	}
	return fmt.Sprintf("invalid %s", strings.ToLower(fe.Field()))
}
