package model

import "time"

// School is reference data administered out of band. IDs are externally
// assigned (e.g. "SCH001") and uploads reference them, never own them.
type School struct {
	ID             string    `json:"school_id" db:"school_id"`
	Name           string    `json:"school_name" db:"school_name"`
	PrincipalEmail string    `json:"principal_email" db:"principal_email"`
	District       string    `json:"district" db:"district"`
	Address        string    `json:"address" db:"address"`
	Phone          string    `json:"phone" db:"phone"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
