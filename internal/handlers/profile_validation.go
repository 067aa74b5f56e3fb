package handlers

import "strings"

type updateProfileInfoJSON struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Biography *string `json:"biography"`
	Location  *string `json:"location"`
}

func validateProfileInfoUpdate(info updateProfileInfoJSON) string {
	if info.FirstName != nil && strings.TrimSpace(*info.FirstName) == "" {
		return "first_name must not be empty"
	}
	if info.LastName != nil && strings.TrimSpace(*info.LastName) == "" {
		return "last_name must not be empty"
	}
	if info.Location != nil && strings.TrimSpace(*info.Location) == "" {
		return "location must not be empty"
	}
	return ""
}
