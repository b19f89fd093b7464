package models

import "time"

type Instrument struct {
	ID             int       `db:"id"`
	Symbol         string    `db:"symbol"`
	Name           string    `db:"name"`
	InstrumentType string    `db:"instrument_type"`
	Currency       string    `db:"currency"`
	CreatedAt      time.Time `db:"created_at"`
}
