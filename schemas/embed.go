// Package schemas embeds the SQL migrations of the mysql storage driver.
package schemas

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
