package spots

import "github.com/go-playground/validator/v10"

// ErrorResponse struct - describes a single failed validation rule.
type ErrorResponse struct {
	FailedField string `json:"failed_field"`
	Tag         string `json:"tag"`
	Value       string `json:"value"`
}

var validate = validator.New()

// ValidateStruct runs the struct's validate tags and returns one
// ErrorResponse per failed rule, or nil when the struct is valid.
func ValidateStruct(s interface{}) []*ErrorResponse {
	var errs []*ErrorResponse

	if err := validate.Struct(s); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errs = append(errs, &ErrorResponse{
				FailedField: fieldErr.StructNamespace(),
				Tag:         fieldErr.Tag(),
				Value:       fieldErr.Param(),
			})
		}
	}

	return errs
}
