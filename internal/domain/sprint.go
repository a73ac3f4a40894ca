package domain

import "time"

type Sprint struct {
	ID        string
	ProjectID string
	Name      string
	Goal      string
	StartDate time.Time
	EndDate   time.Time
}
