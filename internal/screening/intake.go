package screening

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/skills"
)

// Field is a profile field collected during intake.
type Field string

const (
	FieldFullName         Field = "full_name"
	FieldEmail            Field = "email"
	FieldPhone            Field = "phone"
	FieldYearsExperience  Field = "years_experience"
	FieldDesiredPositions Field = "desired_positions"
	FieldCurrentLocation  Field = "current_location"
	FieldTechStack        Field = "tech_stack"
)

// IntakeFields lists the fields in the order they are asked.
var IntakeFields = []Field{
	FieldFullName,
	FieldEmail,
	FieldPhone,
	FieldYearsExperience,
	FieldDesiredPositions,
	FieldCurrentLocation,
	FieldTechStack,
}

// Label is the human readable field name.
func (f Field) Label() string {
	switch f {
	case FieldFullName:
		return "Full name"
	case FieldEmail:
		return "Email address"
	case FieldPhone:
		return "Phone number"
	case FieldYearsExperience:
		return "Years of professional experience"
	case FieldDesiredPositions:
		return "Desired role(s) or job title(s)"
	case FieldCurrentLocation:
		return "Current location (city, country)"
	case FieldTechStack:
		return "Tech stack (technologies, tools, frameworks)"
	default:
		return string(f)
	}
}

const (
	maxYears = 40

	minPhoneDigits = 8
	maxPhoneDigits = 15
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	yearsPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// set validates raw input for field and stores the normalized value.
func (p *Profile) set(field Field, raw string) error {
	value := skills.StripLabel(raw)

	switch field {
	case FieldFullName, FieldDesiredPositions, FieldCurrentLocation:
		if !hasLetterOrDigit(value) {
			return &ValidationError{Field: field, Hint: "This can't be empty. Please enter your " + strings.ToLower(field.Label()) + "."}
		}
		value = strings.Join(strings.Fields(value), " ")
		switch field {
		case FieldFullName:
			p.FullName = value
		case FieldDesiredPositions:
			p.DesiredPositions = value
		default:
			p.CurrentLocation = value
		}
	case FieldEmail:
		email, err := ParseEmail(raw)
		if err != nil {
			return err
		}
		p.Email = email
	case FieldPhone:
		phone, err := NormalizePhone(raw)
		if err != nil {
			return err
		}
		p.Phone = phone
	case FieldYearsExperience:
		years, err := ParseYears(raw)
		if err != nil {
			return err
		}
		p.YearsExperience = years
	case FieldTechStack:
		if len(skills.Tokenize(value)) == 0 {
			return &ValidationError{Field: field, Hint: "I couldn't detect any technologies. Please enter at least one, e.g. `Python, Django`."}
		}
		p.TechStack = value
	default:
		return &ValidationError{Field: field, Hint: "unknown field"}
	}

	return nil
}

// ParseEmail accepts something shaped like name@example.com.
func ParseEmail(raw string) (string, error) {
	value := skills.StripLabel(raw)
	if !emailPattern.MatchString(value) {
		return "", &ValidationError{
			Field: FieldEmail,
			Hint:  "That doesn't look like a valid email. Please enter something like `name@example.com`.",
		}
	}
	return value, nil
}

// NormalizePhone keeps the digits of the number and an optional leading '+'. The
// number must have 8 to 15 digits.
func NormalizePhone(raw string) (string, error) {
	value := skills.StripLabel(raw)

	var b strings.Builder
	digits := 0
	for i, r := range value {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits++
		}
	}

	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return "", &ValidationError{
			Field: FieldPhone,
			Hint:  "That doesn't look like a valid phone number. Please enter 8-15 digits (you can start with `+` for country code).",
		}
	}
	return b.String(), nil
}

// ParseYears reads the first number in free text such as "2.5 years", rounds it and
// clamps it to 0..40.
func ParseYears(raw string) (int, error) {
	match := yearsPattern.FindString(skills.StripLabel(raw))
	if match == "" {
		return 0, &ValidationError{
			Field: FieldYearsExperience,
			Hint:  "Could you enter your experience roughly as a number? For example: `1`, `2.5 years`, or `3 yrs`.",
		}
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, &ValidationError{Field: FieldYearsExperience, Hint: "Please enter your experience as a number."}
	}

	return int(math.Round(math.Min(math.Max(value, 0), maxYears))), nil
}

// SeniorityFor maps years of experience to a label.
func SeniorityFor(years int) string {
	switch {
	case years < 2:
		return "Junior"
	case years < 6:
		return "Mid-level"
	default:
		return "Senior"
	}
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
