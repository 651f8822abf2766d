package migrations

import "embed"

// FS migraciones SQL embebidas en el binario (formato golang-migrate: NNNNNN_nombre.up.sql / .down.sql).
//
//go:embed *.sql
var FS embed.FS
