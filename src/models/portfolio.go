package models

import "time"

type Portfolio struct {
	ID              int       `db:"id"`
	Name            string    `db:"name"`
	BrokerAccountID int       `db:"broker_account_id"`
	CreatedAt       time.Time `db:"created_at"`
}
