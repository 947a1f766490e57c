package model

import "github.com/go-playground/validator/v10"

// validate checks the column widths that SQLite does not enforce itself.
var validate = validator.New(validator.WithRequiredStructEnabled())
