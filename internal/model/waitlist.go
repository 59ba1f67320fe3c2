package model

import "time"

type WaitlistEntry struct {
	Name      string
	Email     string
	BarName   string
	CreatedAt time.Time
}
