package sql

import (
	"embed"
)

// Migrations holds the schema DDL, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/upsert_snapshot.sql
var UpsertSnapshot string

//go:embed queries/delete_snapshot_type_groups.sql
var DeleteSnapshotTypeGroups string

//go:embed queries/previous_snapshot.sql
var PreviousSnapshot string

//go:embed queries/list_snapshots.sql
var ListSnapshots string

//go:embed queries/snapshot_type_groups.sql
var SnapshotTypeGroups string
