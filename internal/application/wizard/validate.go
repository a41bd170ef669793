package wizard

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/turtacn/sds-wizard/internal/domain/sds"
)

// FieldErrors maps a field name to its first validation message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e[k]
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Validator cleans one step's raw input.  Cleaned fields contain exactly the
// step's form fields; unknown keys are dropped.
type Validator interface {
	Validate(step Step, raw Fields) (Fields, FieldErrors)
}

var casPattern = regexp.MustCompile(`^(\d{2,7})-(\d{2})-(\d)$`)

// ValidCAS reports whether s is a CAS registry number with a correct check
// digit.
func ValidCAS(s string) bool {
	m := casPattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	digits := m[1] + m[2]
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[len(digits)-1-i]-'0') * (i + 1)
	}
	return sum%10 == int(m[3][0]-'0')
}

// fieldRules are validator tags per step and field.  Lengths follow the
// record's column sizes.
var fieldRules = map[Step]map[string]string{
	Section1: {
		FieldCASNumber:        "required,max=20,cas",
		"product_name":        "max=200",
		"product_number":      "max=20",
		"index_number":        "max=20",
		"reach_no":            "max=20",
		"manufacturer_name":   "max=200",
		"phone_number":        "max=50",
		"emergency_phone":     "max=50",
		"recommended_use":     "max=200",
		"restrictions_on_use": "max=200",
	},
	Section2: {
		FieldSignalWord: "omitempty,oneof=Warning Danger",
	},
	Section3: {
		"substance_or_mixture":     "omitempty,oneof=substance mixture",
		"chemical_name":            "max=200",
		"other_unique_identifiers": "max=50",
	},
	Section14: {
		"UN_number":               "max=50",
		"UN_proper_shipping_name": "max=200",
		"transport_hazard_class":  "max=200",
		"packing_group":           "max=50",
	},
	Section16: {
		FieldVersion:          "required,max=50",
		"date_of_preparation": "omitempty,datetime=2006-01-02",
		"last_revision_date":  "omitempty,datetime=2006-01-02",
	},
}

// FormValidator implements Validator with go-playground/validator tags.
type FormValidator struct {
	validate   *validator.Validate
	pictograms sds.PictogramTable
}

// NewFormValidator builds a validator that accepts additional pictograms
// from table.
func NewFormValidator(table sds.PictogramTable) *FormValidator {
	v := validator.New()
	_ = v.RegisterValidation("cas", func(fl validator.FieldLevel) bool {
		return ValidCAS(fl.Field().String())
	})
	return &FormValidator{validate: v, pictograms: table}
}

// Validate trims string fields, applies the step's rules and checks the
// pictogram selection.
func (v *FormValidator) Validate(step Step, raw Fields) (Fields, FieldErrors) {
	errs := FieldErrors{}
	if step.Index() == 0 {
		errs["__step__"] = fmt.Sprintf("unknown step %q", step)
		return nil, errs
	}
	rules := fieldRules[step]
	cleaned := make(Fields, len(stepFields[step]))

	for _, name := range stepFields[step] {
		switch name {
		case FieldLabelElements:
			els := raw.LabelElements()
			if els == nil {
				els = []sds.LabelElement{}
			}
			cleaned[name] = sds.MergeLabelElements(els)
		case FieldAdditionalPictograms:
			keys := raw.Strings(name)
			for _, k := range keys {
				if !v.pictograms.Has(k) {
					errs[name] = fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", k)
					break
				}
			}
			if keys == nil {
				keys = []string{}
			}
			cleaned[name] = keys
		default:
			val := strings.TrimSpace(raw.String(name))
			if tag, ok := rules[name]; ok {
				if msg := v.check(val, tag); msg != "" {
					errs[name] = msg
				}
			}
			cleaned[name] = val
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return cleaned, nil
}

func (v *FormValidator) check(val, tag string) string {
	err := v.validate.Var(val, tag)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "cas":
		return "Enter a valid CAS number, such as 108-88-3."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", val)
	case "datetime":
		return "Enter a valid date as YYYY-MM-DD."
	default:
		return fmt.Sprintf("Failed the %q check.", fe.Tag())
	}
}

//Personal.AI order the ending
