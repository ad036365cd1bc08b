package services

import "github.com/go-playground/validator/v10"

// validate checks service input structs against their validate tags
var validate = validator.New()
