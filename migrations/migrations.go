// Package migrations embeds the SQL schema applied by bookingctl.
package migrations

import _ "embed"

//go:embed 0001_bookings.sql
var Bookings string
