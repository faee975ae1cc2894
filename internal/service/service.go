// Package service provides the business logic layer for accounts, calendars,
// entries, and the date-gated door opening flow.
package service

import "github.com/adventapp/advent-server/internal/validation"

// validate is a shared validator instance for request validation.
var validate = validation.New()
