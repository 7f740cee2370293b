// Package migrations 内嵌 Postgres 表结构，由 platform/migrate 执行
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
